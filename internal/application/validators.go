package application

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"

	"github.com/podiumhq/podium/internal/domain"
)

// Built-in tie-break keys understood by the ranking engine alongside
// area codes.
var builtinTieBreakKeys = []string{"total_score", "percentage", "elapsed_time"}

var (
	semverPattern   = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	areaCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,31}$`)
)

// registerCustomValidators adds the semantic validation tags used by
// template structs beyond basic field validation.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("areacode", validateAreaCode); err != nil {
		return fmt.Errorf("failed to register areacode validator: %w", err)
	}
	return nil
}

// validateSemver checks semantic version format (optionally v-prefixed).
func validateSemver(fl validator.FieldLevel) bool {
	return semverPattern.MatchString(fl.Field().String())
}

// validateAreaCode checks the stable linking key format: uppercase
// alphanumeric with underscores, starting with a letter.
func validateAreaCode(fl validator.FieldLevel) bool {
	return areaCodePattern.MatchString(fl.Field().String())
}

// validateTemplateSemantics applies the cross-field rules struct tags
// cannot express. It accumulates every violation so template authors
// see all problems at once.
func validateTemplateSemantics(t *TournamentTemplate) error {
	verr := domain.NewValidationError(t.Metadata.Name)

	areaIDs := make(map[string]struct{}, len(t.Areas))
	areaCodes := make(map[string]struct{}, len(t.Areas))
	for _, area := range t.Areas {
		if _, dup := areaIDs[area.ID]; dup {
			verr.Addf("duplicate area id %q", area.ID)
		}
		areaIDs[area.ID] = struct{}{}
		if _, dup := areaCodes[area.Code]; dup {
			verr.Addf("duplicate area code %q", area.Code)
		}
		areaCodes[area.Code] = struct{}{}

		validateAreaPayload(verr, area)
	}

	for code := range t.Tournament.AreaWeights {
		if _, ok := areaCodes[code]; !ok {
			verr.Addf("area weight references unknown code %q%s",
				code, didYouMean(code, knownCodes(areaCodes, nil)))
		}
	}

	for _, key := range t.Tournament.TieBreak {
		if _, ok := areaCodes[key]; ok {
			continue
		}
		known := knownCodes(areaCodes, builtinTieBreakKeys)
		if !contains(builtinTieBreakKeys, key) {
			verr.Addf("tie-break key %q is neither an area code nor a built-in%s",
				key, didYouMean(key, known))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// validateAreaPayload checks that each area carries exactly the
// configuration its scoring type requires and that the payload is
// internally consistent.
func validateAreaPayload(verr *domain.ValidationError, area AreaConfig) {
	switch area.ScoringType {
	case "rubric":
		if area.Rubric == nil {
			verr.Addf("rubric area %q has no rubric section", area.ID)
		}
		if area.Performance != nil {
			verr.Addf("rubric area %q must not carry a performance section", area.ID)
		}
	case "performance":
		if area.Performance == nil {
			verr.Addf("performance area %q has no performance section", area.ID)
		}
		if area.Rubric != nil {
			verr.Addf("performance area %q must not carry a rubric section", area.ID)
		}
	case "mixed":
		if area.Rubric == nil || area.Performance == nil {
			verr.Addf("mixed area %q must carry both rubric and performance sections", area.ID)
		}
		if area.MixedAggregation == "" {
			verr.Addf("mixed area %q has no mixed_aggregation", area.ID)
		}
	}
	if area.ScoringType != "mixed" && area.MixedAggregation != "" {
		verr.Addf("area %q sets mixed_aggregation but is not mixed", area.ID)
	}

	if area.Rubric != nil {
		validateCriteria(verr, area)
	}
	if area.Performance != nil {
		validateMissions(verr, area)
	}
}

// validateCriteria checks option sets against each criterion's ceiling.
func validateCriteria(verr *domain.ValidationError, area AreaConfig) {
	seen := make(map[string]struct{}, len(area.Rubric.Criteria))
	for _, c := range area.Rubric.Criteria {
		if _, dup := seen[c.ID]; dup {
			verr.Addf("area %q: duplicate criterion id %q", area.ID, c.ID)
		}
		seen[c.ID] = struct{}{}

		for _, opt := range c.Options {
			if opt < 0 || opt > c.MaxScore {
				verr.Addf("area %q: criterion %q option %v outside [0, %v]",
					area.ID, c.ID, opt, c.MaxScore)
			}
		}
	}
}

// validateMissions checks dependency references and rejects cycles;
// a dependency loop would make the gated missions unscorable.
func validateMissions(verr *domain.ValidationError, area AreaConfig) {
	missions := make(map[string][]string, len(area.Performance.Missions))
	for _, m := range area.Performance.Missions {
		if _, dup := missions[m.ID]; dup {
			verr.Addf("area %q: duplicate mission id %q", area.ID, m.ID)
		}
		missions[m.ID] = m.Dependencies
	}

	ids := make([]string, 0, len(missions))
	for id := range missions {
		ids = append(ids, id)
	}
	for _, m := range area.Performance.Missions {
		for _, dep := range m.Dependencies {
			if dep == m.ID {
				verr.Addf("area %q: mission %q depends on itself", area.ID, m.ID)
				continue
			}
			if _, ok := missions[dep]; !ok {
				verr.Addf("area %q: mission %q depends on unknown mission %q%s",
					area.ID, m.ID, dep, didYouMean(dep, ids))
			}
		}
	}

	if cycle := findDependencyCycle(missions); len(cycle) > 0 {
		verr.Addf("area %q: mission dependency cycle: %s",
			area.ID, strings.Join(cycle, " -> "))
	}
}

// findDependencyCycle returns one dependency cycle if any exists,
// using iterative DFS with three-color marking.
func findDependencyCycle(deps map[string][]string) []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(deps))
	var cycle []string

	var visit func(id string, path []string) bool
	visit = func(id string, path []string) bool {
		color[id] = gray
		path = append(path, id)
		for _, dep := range deps[id] {
			if _, ok := deps[dep]; !ok {
				continue
			}
			switch color[dep] {
			case gray:
				for i, p := range path {
					if p == dep {
						cycle = append(append([]string{}, path[i:]...), dep)
						return true
					}
				}
			case white:
				if visit(dep, path) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for id := range deps {
		if color[id] == white && visit(id, nil) {
			return cycle
		}
	}
	return nil
}

// didYouMean suggests the closest known key when an unknown reference
// is within a small edit distance.
func didYouMean(unknown string, known []string) string {
	const maxDistance = 3
	best := ""
	bestDist := maxDistance + 1
	for _, k := range known {
		if d := levenshtein.ComputeDistance(unknown, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

func knownCodes(codes map[string]struct{}, extra []string) []string {
	out := make([]string, 0, len(codes)+len(extra))
	for c := range codes {
		out = append(out, c)
	}
	return append(out, extra...)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
