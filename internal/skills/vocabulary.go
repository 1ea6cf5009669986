// Package skills holds the fixed skill vocabulary and the job description
// skill extractor built on top of it.
package skills

// Vocabulary is the fixed, ordered list of skill names known to the
// screening pipeline. Extraction output preserves this order, and the mock
// skill source samples from it. The order is load-bearing: do not sort.
var Vocabulary = []string{
	"JavaScript", "TypeScript", "React", "Angular", "Vue", "Node.js",
	"Python", "Java", "C++", "C#", "Go", "Rust", "Ruby", "PHP",
	"SQL", "NoSQL", "MongoDB", "PostgreSQL", "MySQL", "Redis",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "CI/CD",
	"Git", "REST", "GraphQL", "Microservices", "Agile", "Scrum",
	"Machine Learning", "AI", "Data Science", "Analytics",
}

// Fallback is returned instead of an empty extraction result so a reviewer
// never sees a job with zero required skills.
var Fallback = []string{"Technical Skills", "Communication", "Problem Solving"}

// frontEndBaseline is appended when the description mentions front-end work
// but the vocabulary scan did not already pick these up.
var frontEndBaseline = []string{"HTML", "CSS"}
