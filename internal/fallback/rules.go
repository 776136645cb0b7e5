package fallback

import "advisor/internal/core"

// The rule table is a hand-authored heuristic carried over from the product
// team's curated defaults. All product IDs reference entries known to exist
// in the static catalog.
var rules = []rule{
	{
		keywords: []string{"laptop", "programming", "coding", "development"},
		response: core.RecommendationResponse{
			QueryAnalysis: "User is looking for a laptop suitable for programming and development work.",
			Recommendations: []core.Recommendation{
				{
					ProductID:      "1",
					RelevanceScore: 95,
					Reasoning:      "MacBook Air M2 offers excellent performance for programming with long battery life and lightweight design.",
					KeyFeatures:    []string{"M2 chip performance", "18-hour battery", "Lightweight at 2.7 lbs"},
				},
				{
					ProductID:      "3",
					RelevanceScore: 90,
					Reasoning:      "ThinkPad X1 Carbon is a business-class laptop with excellent keyboard and durability for long coding sessions.",
					KeyFeatures:    []string{"Military-grade durability", "15-hour battery", "1TB SSD storage"},
				},
				{
					ProductID:      "2",
					RelevanceScore: 85,
					Reasoning:      "Dell XPS 13 provides powerful performance in a compact form factor perfect for developers on the go.",
					KeyFeatures:    []string{"Intel Core i7", "16GB RAM", "512GB SSD"},
				},
			},
		},
	},
	{
		keywords: []string{"headphone", "noise", "work", "music"},
		response: core.RecommendationResponse{
			QueryAnalysis: "User needs headphones for work or music with noise cancellation features.",
			Recommendations: []core.Recommendation{
				{
					ProductID:      "11",
					RelevanceScore: 95,
					Reasoning:      "Sony WH-1000XM5 offers industry-leading noise cancellation perfect for focused work and music enjoyment.",
					KeyFeatures:    []string{"Best-in-class ANC", "30-hour battery", "Multipoint connection"},
				},
				{
					ProductID:      "12",
					RelevanceScore: 90,
					Reasoning:      "Bose QuietComfort 45 provides legendary comfort for all-day wear with excellent noise cancellation.",
					KeyFeatures:    []string{"Legendary comfort", "24-hour battery", "Clear calls"},
				},
				{
					ProductID:      "10",
					RelevanceScore: 85,
					Reasoning:      "AirPods Pro 2 offers premium wireless experience with active noise cancellation in a compact form.",
					KeyFeatures:    []string{"Active noise cancellation", "Spatial audio", "MagSafe charging"},
				},
			},
		},
	},
	{
		keywords: []string{"smartphone", "phone", "camera", "photo"},
		response: core.RecommendationResponse{
			QueryAnalysis: "User is looking for a smartphone with emphasis on camera quality.",
			Recommendations: []core.Recommendation{
				{
					ProductID:      "8",
					RelevanceScore: 95,
					Reasoning:      "Google Pixel 8 Pro features exceptional computational photography with AI-powered camera features.",
					KeyFeatures:    []string{"Best-in-class camera", "Magic Eraser", "Pure Android"},
				},
				{
					ProductID:      "6",
					RelevanceScore: 92,
					Reasoning:      "iPhone 15 Pro offers advanced camera system with ProRAW and ProRes video capabilities.",
					KeyFeatures:    []string{"48MP camera", "ProMotion display", "Titanium build"},
				},
				{
					ProductID:      "7",
					RelevanceScore: 88,
					Reasoning:      "Samsung Galaxy S24 Ultra features a 200MP camera with S Pen for creative control.",
					KeyFeatures:    []string{"200MP camera", "S Pen included", "6.8-inch display"},
				},
			},
		},
	},
	{
		keywords: []string{"watch", "fitness", "health", "tracking"},
		response: core.RecommendationResponse{
			QueryAnalysis: "User wants a smartwatch for fitness tracking and health monitoring.",
			Recommendations: []core.Recommendation{
				{
					ProductID:      "17",
					RelevanceScore: 94,
					Reasoning:      "Apple Watch Series 9 provides comprehensive health tracking with ECG and blood oxygen monitoring.",
					KeyFeatures:    []string{"Blood oxygen monitoring", "ECG", "GPS"},
				},
				{
					ProductID:      "19",
					RelevanceScore: 92,
					Reasoning:      "Garmin Fenix 7 is perfect for serious athletes with advanced training metrics and solar charging.",
					KeyFeatures:    []string{"18-day battery", "Solar charging", "Advanced training metrics"},
				},
				{
					ProductID:      "18",
					RelevanceScore: 87,
					Reasoning:      "Samsung Galaxy Watch 6 offers body composition analysis and comprehensive sleep tracking.",
					KeyFeatures:    []string{"Body composition", "Sleep tracking", "40-hour battery"},
				},
			},
		},
	},
	{
		keywords: []string{"tablet", "ipad", "draw", "note"},
		response: core.RecommendationResponse{
			QueryAnalysis: "User needs a tablet for creative work or note-taking.",
			Recommendations: []core.Recommendation{
				{
					ProductID:      "14",
					RelevanceScore: 95,
					Reasoning:      "iPad Pro 12.9 with M2 chip offers professional-grade performance with Apple Pencil support for digital art.",
					KeyFeatures:    []string{"M2 chip", "Liquid Retina XDR", "Apple Pencil support"},
				},
				{
					ProductID:      "15",
					RelevanceScore: 90,
					Reasoning:      "Samsung Galaxy Tab S9 Ultra features large AMOLED display with included S Pen for productivity.",
					KeyFeatures:    []string{"14.6-inch AMOLED", "S Pen included", "Water resistant"},
				},
				{
					ProductID:      "16",
					RelevanceScore: 85,
					Reasoning:      "Microsoft Surface Pro 9 runs full Windows 11 for complete desktop experience in tablet form.",
					KeyFeatures:    []string{"Full Windows 11", "Type Cover compatible", "Surface Pen support"},
				},
			},
		},
	},
	{
		keywords: []string{"gaming", "game", "console", "play"},
		response: core.RecommendationResponse{
			QueryAnalysis: "User is interested in gaming consoles or gaming equipment.",
			Recommendations: []core.Recommendation{
				{
					ProductID:      "27",
					RelevanceScore: 92,
					Reasoning:      "PlayStation 5 offers next-gen gaming with ray tracing and ultra-fast SSD for incredible performance.",
					KeyFeatures:    []string{"4K gaming", "Ray tracing", "DualSense controller"},
				},
				{
					ProductID:      "28",
					RelevanceScore: 90,
					Reasoning:      "Xbox Series X provides powerful 4K gaming with Game Pass for access to hundreds of games.",
					KeyFeatures:    []string{"120fps support", "Game Pass", "Quick Resume"},
				},
				{
					ProductID:      "30",
					RelevanceScore: 88,
					Reasoning:      "Steam Deck lets you play your entire Steam library portably with PC gaming power.",
					KeyFeatures:    []string{"Portable PC gaming", "Steam library", "Expandable storage"},
				},
			},
		},
	},
}

// defaultResponse is returned when no keyword rule matches.
var defaultResponse = core.RecommendationResponse{
	QueryAnalysis: "Here are some popular products from our catalog that might interest you.",
	Recommendations: []core.Recommendation{
		{
			ProductID:      "1",
			RelevanceScore: 85,
			Reasoning:      "MacBook Air M2 is a versatile laptop perfect for everyday computing and creative work.",
			KeyFeatures:    []string{"M2 chip", "All-day battery", "Lightweight design"},
		},
		{
			ProductID:      "6",
			RelevanceScore: 82,
			Reasoning:      "iPhone 15 Pro is a premium smartphone with advanced features for productivity and entertainment.",
			KeyFeatures:    []string{"A17 Pro chip", "ProMotion display", "5G connectivity"},
		},
		{
			ProductID:      "11",
			RelevanceScore: 80,
			Reasoning:      "Sony WH-1000XM5 headphones deliver exceptional audio quality for any listening experience.",
			KeyFeatures:    []string{"Premium sound", "Noise cancellation", "30-hour battery"},
		},
	},
}
