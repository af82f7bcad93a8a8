package site

// Section ids in page order. The scroll-reveal script observes each.
var SectionIDs = []string{
	"hero",
	"problem-solution",
	"features",
	"how-it-works",
	"tech-stack",
	"ui-ux",
	"roadmap",
}

type Hero struct {
	Title   string
	Tagline string
	Pitch   string
}

type Card struct {
	Title string
	Body  string
	Tone  string
}

type ArchitectureStep struct {
	Title     string
	Body      string
	Component string
}

type TechCard struct {
	Logo     string
	Name     string
	Category string
}

type RoadmapStatus string

const (
	StatusNextUp     RoadmapStatus = "Next Up"
	StatusInProgress RoadmapStatus = "In Progress"
	StatusPlanned    RoadmapStatus = "Planned"
)

// Class is the badge style for the status.
func (s RoadmapStatus) Class() string {
	switch s {
	case StatusNextUp:
		return "badge-green"
	case StatusInProgress:
		return "badge-yellow"
	default:
		return "badge-blue"
	}
}

type RoadmapItem struct {
	Title       string
	Description string
	Status      RoadmapStatus
}

type SectionTitle struct {
	Title    string
	Subtitle string
}

// Content is everything the page template renders.
type Content struct {
	Hero           Hero
	ProblemTitle   SectionTitle
	Problem        Card
	Solution       Card
	FeaturesTitle  SectionTitle
	HowItWorks     SectionTitle
	Architecture   []ArchitectureStep
	TechStackTitle SectionTitle
	TechStack      []TechCard
	UiUxTitle      SectionTitle
	UiUxHeading    string
	UiUxBody       string
	UiUxPoints     []string
	UiUxImage      string
	RoadmapTitle   SectionTitle
	Roadmap        []RoadmapItem
	Year           int
}

// DefaultContent is the StudyMate presentation copy.
func DefaultContent(year int) Content {
	return Content{
		Hero: Hero{
			Title:   "StudyMate",
			Tagline: "An AI-Powered PDF Q&A System for Students",
			Pitch:   "Stop endlessly scrolling through lecture notes and textbooks. Upload your documents, ask questions, and get instant, accurate answers with cited sources.",
		},
		ProblemTitle: SectionTitle{Title: "Bridging the Gap in Student Learning", Subtitle: "The Challenge & Our Approach"},
		Problem: Card{
			Title: "The Problem",
			Body:  "Students face information overload, spending hours searching for specific facts in dense PDFs and textbooks. This traditional method is inefficient, frustrating, and hinders deep understanding.",
			Tone:  "text-red",
		},
		Solution: Card{
			Title: "The Solution",
			Body:  "StudyMate transforms static PDFs into interactive learning partners. By leveraging Google's Gemini API, it provides direct, context-aware answers, helping students learn faster and more effectively.",
			Tone:  "text-green",
		},
		FeaturesTitle: SectionTitle{Title: "Interactive Core Features", Subtitle: "Try StudyMate Live"},
		HowItWorks:    SectionTitle{Title: "System Architecture", Subtitle: "The Engine Behind StudyMate"},
		Architecture: []ArchitectureStep{
			{
				Title:     "1. PDF Ingestion & Embedding",
				Body:      "User uploads a PDF. The backend extracts text, splits it into chunks, and creates vector embeddings for semantic search.",
				Component: "Vector Database",
			},
			{
				Title:     "2. Query & Context Retrieval",
				Body:      "User asks a question. The query is embedded and used to find the most relevant text chunks from the Vector DB.",
				Component: "Similarity Search",
			},
			{
				Title:     "3. Answer Generation",
				Body:      "The user's query and retrieved context are sent to the Gemini API, which generates a comprehensive and cited answer.",
				Component: "Gemini Pro API",
			},
		},
		TechStackTitle: SectionTitle{Title: "Technology Stack", Subtitle: "Powered by Modern Technologies"},
		TechStack: []TechCard{
			{Logo: "💻", Name: "Go", Category: "Backend"},
			{Logo: "🎨", Name: "Vanilla CSS", Category: "Styling"},
			{Logo: "🧠", Name: "Gemini API", Category: "AI/ML"},
			{Logo: "⚙️", Name: "chi", Category: "Routing"},
			{Logo: "🗄️", Name: "Firestore", Category: "Database"},
			{Logo: "🔎", Name: "Vector DB", Category: "Search"},
			{Logo: "☁️", Name: "Google Cloud", Category: "Hosting"},
			{Logo: "🚀", Name: "WebSockets", Category: "Streaming"},
		},
		UiUxTitle:   SectionTitle{Title: "Intuitive & Clean Interface", Subtitle: "Designed for Students"},
		UiUxHeading: "Focus on Usability",
		UiUxBody:    "The user interface is designed to be minimal and distraction-free, allowing students to focus on what matters: learning. A familiar chat-based layout makes interaction natural and efficient.",
		UiUxPoints: []string{
			"Responsive design for all devices.",
			"Accessible color contrasts and navigation.",
			"Clear visual hierarchy.",
		},
		UiUxImage:    "https://picsum.photos/seed/studymate-ui/800/600",
		RoadmapTitle: SectionTitle{Title: "Future Roadmap", Subtitle: "What's Next for StudyMate"},
		Roadmap: []RoadmapItem{
			{Title: "Multi-Document Q&A", Description: "Ask questions across multiple uploaded documents simultaneously.", Status: StatusNextUp},
			{Title: "Automated Flashcards", Description: "Generate flashcards from your documents to aid with active recall and revision.", Status: StatusInProgress},
			{Title: "Advanced Summarization", Description: "Get concise summaries of entire documents or specific sections.", Status: StatusPlanned},
			{Title: "Collaborative Study Rooms", Description: "Invite friends to a shared session to study the same documents together.", Status: StatusPlanned},
		},
		Year: year,
	}
}
