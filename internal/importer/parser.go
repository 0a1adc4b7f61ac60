// Package importer loads a role library export into the catalog: skills,
// role profiles and their required-skill lines.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"
)

// Up to six hard and six soft skill columns per role row, each paired
// with a level column.
const skillColumnCount = 6

// levelBySynonym maps the spreadsheet's level words onto ladder
// sequences. Unknown words drop the pair.
var levelBySynonym = map[string]int{
	"beginner":     1,
	"intermediate": 2,
	"advanced":     3,
	"expert":       4,
}

type SkillRecord struct {
	ExternalKey string
	Name        string
	Type        skill.Type
	Category    string
}

type LineRecord struct {
	ExternalRoleID   string
	ExternalSkillKey string
	TargetLevelSeq   int
	IsRequired       bool
}

type Library struct {
	Skills []SkillRecord
	Roles  []repository.RoleProfileUpsert
	Lines  []LineRecord
}

// externalRoleIDMaxLen bounds the derived fallback id.
const externalRoleIDMaxLen = 180

var whitespaceRun = regexp.MustCompile(`\s+`)

func normalizeSkillName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(name), " ")
}

func normalizeKey(s string) string {
	return strings.ToLower(normalizeSkillName(s))
}

type header struct {
	index map[string]int
}

func newHeader(row []string) header {
	idx := make(map[string]int, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h != "" {
			idx[h] = i
		}
	}
	return header{index: idx}
}

// detect returns the first present column among the synonyms, or "".
func (h header) detect(synonyms ...string) string {
	for _, s := range synonyms {
		if _, ok := h.index[s]; ok {
			return s
		}
	}
	return ""
}

func (h header) value(row []string, column string) string {
	if column == "" {
		return ""
	}
	i, ok := h.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Parse reads a role library CSV export. Rows without a role title are
// skipped; duplicate (role, skill) lines keep the highest level.
func Parse(r io.Reader, source string, importedOn time.Time) (Library, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return Library{}, fmt.Errorf("importer: read csv: %w", err)
	}
	if len(rows) < 1 {
		return Library{}, fmt.Errorf("importer: empty file")
	}

	h := newHeader(rows[0])

	roleTitleCol := h.detect("Role Title", "Title", "Role")
	if roleTitleCol == "" {
		return Library{}, fmt.Errorf("importer: required column Role Title not found")
	}
	roleIDCol := h.detect("Role ID", "RoleID", "Role Id")
	careerLevelCol := h.detect("Career Level", "Level")

	sectorCol := h.detect("Sector")
	industryCol := h.detect("Industry")
	deptCol := h.detect("Department")
	subDeptCol := h.detect("Sub-Department", "Sub Department")
	jobFamilyCol := h.detect("Job Family")
	roleDescCol := h.detect("Role Description", "Description")
	respCol := h.detect("Key Responsibilities", "Responsibilities")
	psodOccCol := h.detect("PSOD Occupational Category")
	psodSkillCol := h.detect("PSOD Skill Level")
	nqfBandCol := h.detect("NQF Band")
	nqfRecCol := h.detect("Recommended NQF Level(s)", "Recommended NQF Levels")
	sascoMajorCol := h.detect("SASCO Major Group")
	sascoSkillCol := h.detect("SASCO Skill Level")
	sascoUnitCol := h.detect("SASCO Unit Group Code")

	skillsByKey := make(map[string]SkillRecord)
	rolesByID := make(map[string]repository.RoleProfileUpsert)
	roleOrder := make([]string, 0)
	lineByKey := make(map[[2]string]LineRecord)
	lineOrder := make([][2]string, 0)

	for _, row := range rows[1:] {
		roleTitle := h.value(row, roleTitleCol)
		if roleTitle == "" {
			continue
		}

		careerLevel := h.value(row, careerLevelCol)
		externalRoleID := h.value(row, roleIDCol)
		if externalRoleID == "" {
			externalRoleID = truncate(normalizeKey(roleTitle+"::"+careerLevel), externalRoleIDMaxLen)
			if externalRoleID == "" {
				externalRoleID = truncate(normalizeKey(roleTitle), externalRoleIDMaxLen)
			}
		}

		if _, ok := rolesByID[externalRoleID]; !ok {
			name := roleTitle
			if careerLevel != "" {
				name = fmt.Sprintf("%s (%s)", roleTitle, careerLevel)
			}
			rolesByID[externalRoleID] = repository.RoleProfileUpsert{
				ExternalRoleID:           externalRoleID,
				Name:                     name,
				RoleTitle:                roleTitle,
				CareerLevel:              careerLevel,
				Sector:                   h.value(row, sectorCol),
				Industry:                 h.value(row, industryCol),
				DepartmentName:           h.value(row, deptCol),
				SubDepartment:            h.value(row, subDeptCol),
				JobFamily:                h.value(row, jobFamilyCol),
				RoleDescription:          h.value(row, roleDescCol),
				KeyResponsibilities:      h.value(row, respCol),
				PSODOccupationalCategory: h.value(row, psodOccCol),
				PSODSkillLevel:           h.value(row, psodSkillCol),
				NQFBand:                  h.value(row, nqfBandCol),
				RecommendedNQFLevels:     h.value(row, nqfRecCol),
				SASCOMajorGroup:          h.value(row, sascoMajorCol),
				SASCOSkillLevel:          h.value(row, sascoSkillCol),
				SASCOUnitGroupCode:       h.value(row, sascoUnitCol),
				ImportSource:             source,
				LastImportedOn:           importedOn,
			}
			roleOrder = append(roleOrder, externalRoleID)
		}

		collect := func(prefix string, skillType skill.Type) {
			for i := 1; i <= skillColumnCount; i++ {
				nameCol := fmt.Sprintf("%s Skill %d", prefix, i)
				levelCol := fmt.Sprintf("%s Skill %d Level", prefix, i)

				name := normalizeSkillName(h.value(row, h.detect(nameCol)))
				if name == "" {
					continue
				}
				seq, ok := levelBySynonym[strings.ToLower(h.value(row, h.detect(levelCol)))]
				if !ok {
					continue
				}

				key := normalizeKey(name)
				if _, exists := skillsByKey[key]; !exists {
					skillsByKey[key] = SkillRecord{
						ExternalKey: key,
						Name:        name,
						Type:        skillType,
						Category:    "Uncategorized",
					}
				}

				lk := [2]string{externalRoleID, key}
				if existing, exists := lineByKey[lk]; !exists || seq > existing.TargetLevelSeq {
					if !exists {
						lineOrder = append(lineOrder, lk)
					}
					lineByKey[lk] = LineRecord{
						ExternalRoleID:   externalRoleID,
						ExternalSkillKey: key,
						TargetLevelSeq:   seq,
						IsRequired:       true,
					}
				}
			}
		}
		collect("Hard", skill.TypeHard)
		collect("Soft", skill.TypeSoft)
	}

	lib := Library{
		Skills: make([]SkillRecord, 0, len(skillsByKey)),
		Roles:  make([]repository.RoleProfileUpsert, 0, len(rolesByID)),
		Lines:  make([]LineRecord, 0, len(lineByKey)),
	}
	for _, key := range sortedKeys(skillsByKey) {
		lib.Skills = append(lib.Skills, skillsByKey[key])
	}
	for _, id := range roleOrder {
		lib.Roles = append(lib.Roles, rolesByID[id])
	}
	for _, lk := range lineOrder {
		lib.Lines = append(lib.Lines, lineByKey[lk])
	}
	return lib, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func sortedKeys(m map[string]SkillRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
