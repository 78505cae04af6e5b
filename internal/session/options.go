package session

import (
	"fmt"
	"strings"
	"unicode"
)

// Role is the position the candidate is interviewing for
type Role string

const (
	RoleFrontendDeveloper  Role = "Frontend Developer"
	RoleBackendDeveloper   Role = "Backend Developer"
	RoleFullStackDeveloper Role = "Full Stack Developer"
	RoleDataScientist      Role = "Data Scientist"
	RoleDataAnalyst        Role = "Data Analyst"
	RoleProductManager     Role = "Product Manager"
	RoleUXDesigner         Role = "UX Designer"
	RoleDevOpsEngineer     Role = "DevOps Engineer"
	RoleMLEngineer         Role = "ML Engineer"
)

// Level is the seniority the interview is pitched at
type Level string

const (
	LevelJunior Level = "Junior"
	LevelMid    Level = "Mid"
	LevelSenior Level = "Senior"
)

// Domain is the industry focus of the interview
type Domain string

const (
	DomainGeneral    Domain = "General"
	DomainTech       Domain = "Tech/Startup"
	DomainFinance    Domain = "Finance"
	DomainHealthcare Domain = "Healthcare"
	DomainECommerce  Domain = "E-commerce"
	DomainEnterprise Domain = "Enterprise"
	DomainConsulting Domain = "Consulting"
)

// Tone controls how the interviewer phrases questions and feedback
type Tone string

const (
	ToneFriendly     Tone = "Friendly"
	ToneProfessional Tone = "Professional"
	ToneStrict       Tone = "Strict"
)

// Technique is the prompt construction strategy used for the system instruction
type Technique string

const (
	TechniqueZeroShot       Technique = "Zero-shot"
	TechniqueFewShot        Technique = "Few-shot"
	TechniqueChainOfThought Technique = "Chain-of-Thought"
	TechniquePersona        Technique = "Persona Interview"
	TechniqueRoleSpecific   Technique = "Role-specific"
	TechniqueStructuredJSON Technique = "Structured JSON"
	TechniqueMixed          Technique = "Mixed Techniques"
)

// Roles lists every supported role in display order
var Roles = []Role{
	RoleFrontendDeveloper,
	RoleBackendDeveloper,
	RoleFullStackDeveloper,
	RoleDataScientist,
	RoleDataAnalyst,
	RoleProductManager,
	RoleUXDesigner,
	RoleDevOpsEngineer,
	RoleMLEngineer,
}

// Levels lists every supported experience level
var Levels = []Level{LevelJunior, LevelMid, LevelSenior}

// Domains lists every supported industry domain
var Domains = []Domain{
	DomainGeneral,
	DomainTech,
	DomainFinance,
	DomainHealthcare,
	DomainECommerce,
	DomainEnterprise,
	DomainConsulting,
}

// Tones lists every supported interviewer tone
var Tones = []Tone{ToneFriendly, ToneProfessional, ToneStrict}

// Techniques lists every supported prompting technique
var Techniques = []Technique{
	TechniqueZeroShot,
	TechniqueFewShot,
	TechniqueChainOfThought,
	TechniquePersona,
	TechniqueRoleSpecific,
	TechniqueStructuredJSON,
	TechniqueMixed,
}

// IsStructured reports whether the technique asks the model for a JSON evaluation
func (t Technique) IsStructured() bool {
	return t == TechniqueStructuredJSON
}

// ParseRole resolves a role from its label or slug
func ParseRole(s string) (Role, error) { return parseOption("role", s, Roles) }

// ParseLevel resolves a level from its label or slug
func ParseLevel(s string) (Level, error) { return parseOption("level", s, Levels) }

// ParseDomain resolves a domain from its label or slug
func ParseDomain(s string) (Domain, error) { return parseOption("domain", s, Domains) }

// ParseTone resolves a tone from its label or slug
func ParseTone(s string) (Tone, error) { return parseOption("tone", s, Tones) }

// ParseTechnique resolves a technique from its label or slug
func ParseTechnique(s string) (Technique, error) { return parseOption("technique", s, Techniques) }

// Slug returns the lowercase dash-separated form of an option label,
// e.g. "Tech/Startup" -> "tech-startup"
func Slug(label string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func parseOption[T ~string](field, s string, values []T) (T, error) {
	want := Slug(s)
	for _, v := range values {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) || Slug(string(v)) == want {
			return v, nil
		}
	}

	allowed := make([]string, len(values))
	for i, v := range values {
		allowed[i] = Slug(string(v))
	}
	var zero T
	return zero, &ValidationError{
		Field:  field,
		Value:  s,
		Reason: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}
