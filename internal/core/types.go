package core

import "time"

const (
	// TimeLayout is the wire format of Session.LastUpdated.
	TimeLayout = "2006-01-02T15:04:05"

	DefaultUserName = "sayang"
	DefaultAIName   = "Changli"

	// MaxMemoryFacts caps the durable fact list; merges truncate from
	// the back, keeping the newest facts.
	MaxMemoryFacts = 12
)

// DefaultPersona is the persona text served to clients as the config
// default; a session only carries it if the client sends it back as the
// custom prompt.
const DefaultPersona = "Kamu adalah AI asisten biasa. " +
	"Jawab dengan ramah, jelas, dan sederhana dalam bahasa Indonesia."

// Turn is one user message and the reply it produced.
type Turn struct {
	User  string `json:"user"`
	Reply string `json:"reply"`
}

// Session is a single conversation. History is append-only; only the most
// recent turns are fed back into prompts, older ones live on compressed in
// MemorySummary and MemoryFacts.
type Session struct {
	ID            string   `json:"id"`
	UserName      string   `json:"user_name"`
	AIName        string   `json:"ai_name"`
	Model         string   `json:"model"`
	CustomPrompt  string   `json:"custom_prompt"`
	History       []Turn   `json:"history"`
	MemorySummary string   `json:"memory_summary,omitempty"`
	MemoryFacts   []string `json:"memory_facts,omitempty"`
	LastUpdated   string   `json:"last_updated"`
}

// Touch rewrites LastUpdated to the given moment.
func (s *Session) Touch(now time.Time) {
	s.LastUpdated = now.Format(TimeLayout)
}

// SessionSummary is the listing view of a session, without history.
type SessionSummary struct {
	ID          string `json:"id"`
	UserName    string `json:"user_name"`
	LastUpdated string `json:"last_updated"`
}

// Profile is the singleton cross-session user record.
type Profile struct {
	About string   `json:"about"`
	Job   string   `json:"job"`
	Facts []string `json:"facts"`
}

// IsEmpty reports whether the profile carries nothing worth prompting with.
func (p Profile) IsEmpty() bool {
	return p.About == "" && p.Job == "" && len(p.Facts) == 0
}

// Model describes one model the generation engine can serve.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
