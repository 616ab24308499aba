package model

import "encoding/json"

// Manifest is the structured profile document rendered by the themes.
//
// The backend stores manifests as opaque JSON and does not validate writes
// against this shape — these types exist to build the placeholder document
// seeded at registration (and to document the canonical shape for readers).
type Manifest struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`
	Projects     []Project    `json:"projects"`
	Education    []Education  `json:"education"`
	Skills       []SkillGroup `json:"skills"`
}

type PersonalInfo struct {
	Name     string            `json:"name"`
	Title    string            `json:"title"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone,omitempty"`
	Location string            `json:"location,omitempty"`
	Bio      string            `json:"bio"`
	Links    map[string]string `json:"links"` // github, linkedin, twitter, website, ...
}

type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Technologies []string `json:"technologies"`
}

type Project struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Technologies []string          `json:"technologies"`
	Links        map[string]string `json:"links"` // github, demo
	Highlights   []string          `json:"highlights"`
	Image        string            `json:"image,omitempty"`
}

type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements"`
}

type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// DefaultManifest returns the placeholder document every new portfolio is
// seeded with. The content is illustrative — the user is expected to replace
// it from the editor.
func DefaultManifest(username string) json.RawMessage {
	m := Manifest{
		PersonalInfo: PersonalInfo{
			Name:     username,
			Title:    "Software Engineer",
			Email:    "you@example.com",
			Location: "Remote",
			Bio:      "Welcome to your new portfolio. Edit this manifest to tell your story.",
			Links: map[string]string{
				"github":   "https://github.com/" + username,
				"linkedin": "https://linkedin.com/in/" + username,
				"website":  "",
			},
		},
		Experience: []Experience{
			{
				Company:      "Acme Corp",
				Position:     "Software Engineer",
				StartDate:    "2022-01",
				Description:  "Describe what you built and why it mattered.",
				Achievements: []string{"Shipped the thing", "Improved the other thing"},
				Technologies: []string{"Go", "TypeScript", "PostgreSQL"},
			},
		},
		Projects: []Project{
			{
				Name:         "Example Project",
				Description:  "A short description of a project you are proud of.",
				Technologies: []string{"Go"},
				Links: map[string]string{
					"github": "https://github.com/" + username + "/example",
					"demo":   "",
				},
				Highlights: []string{"What makes it interesting"},
			},
		},
		Education: []Education{
			{
				Institution:  "State University",
				Degree:       "B.Sc.",
				Field:        "Computer Science",
				StartDate:    "2017-09",
				EndDate:      "2021-06",
				Achievements: []string{},
			},
		},
		Skills: []SkillGroup{
			{Category: "Languages", Items: []string{"Go", "JavaScript", "SQL"}},
			{Category: "Tools", Items: []string{"Git", "Docker", "Linux"}},
			{Category: "Practices", Items: []string{"Testing", "Code Review", "CI/CD"}},
		},
	}

	// Marshalling a fully value-typed struct cannot fail.
	raw, _ := json.Marshal(m)
	return raw
}
