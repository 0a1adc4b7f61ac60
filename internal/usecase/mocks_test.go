package usecase

import (
	"context"
	"sync"
	"time"

	"competency-hub/internal/domain/assessment"
	"competency-hub/internal/domain/course"
	"competency-hub/internal/domain/employee"
	"competency-hub/internal/domain/ladder"
	"competency-hub/internal/domain/scoring"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

type mockLevelRepo struct {
	levels    []ladder.Level
	err       error
	createErr error
}

func (m *mockLevelRepo) List(context.Context) ([]ladder.Level, error) {
	return m.levels, m.err
}

func (m *mockLevelRepo) GetByID(_ context.Context, id uuid.UUID) (ladder.Level, error) {
	if m.err != nil {
		return ladder.Level{}, m.err
	}
	for _, lv := range m.levels {
		if lv.ID == id {
			return lv, nil
		}
	}
	return ladder.Level{}, repository.ErrLevelNotFound
}

func (m *mockLevelRepo) Create(_ context.Context, lv ladder.Level) (ladder.Level, error) {
	if m.createErr != nil {
		return ladder.Level{}, m.createErr
	}
	m.levels = append(m.levels, lv)
	return lv, nil
}

type mockSkillRepo struct {
	skills    map[uuid.UUID]skill.Skill
	createErr error
}

func (m *mockSkillRepo) List(context.Context) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSkillRepo) GetByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	s, ok := m.skills[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (m *mockSkillRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.skills[id]
	return ok, nil
}

func (m *mockSkillRepo) Create(_ context.Context, s skill.Skill) (skill.Skill, error) {
	if m.createErr != nil {
		return skill.Skill{}, m.createErr
	}
	m.skills[s.ID] = s
	return s, nil
}

func (m *mockSkillRepo) UpsertByExternalKey(_ context.Context, s skill.Skill) (uuid.UUID, error) {
	m.skills[s.ID] = s
	return s.ID, nil
}

func (m *mockSkillRepo) EnsureCategory(context.Context, string) (uuid.UUID, error) {
	return uuid.New(), nil
}

type mockEmployeeRepo struct {
	employees     map[uuid.UUID]employee.Employee
	managerUserID *uuid.UUID
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id uuid.UUID) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, repository.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *mockEmployeeRepo) ManagerUserID(context.Context, uuid.UUID) (uuid.UUID, bool, error) {
	if m.managerUserID == nil {
		return uuid.Nil, false, nil
	}
	return *m.managerUserID, true, nil
}

type ledgerKey struct {
	employeeID uuid.UUID
	skillID    uuid.UUID
}

type mockLedgerRepo struct {
	entries  map[ledgerKey]skill.LedgerEntry
	evidence map[uuid.UUID][]skill.Evidence
	expiring []repository.ExpiringEntry
	statuses map[uuid.UUID]skill.VerificationStatus
}

func newMockLedgerRepo() *mockLedgerRepo {
	return &mockLedgerRepo{
		entries:  make(map[ledgerKey]skill.LedgerEntry),
		evidence: make(map[uuid.UUID][]skill.Evidence),
		statuses: make(map[uuid.UUID]skill.VerificationStatus),
	}
}

func (m *mockLedgerRepo) put(e skill.LedgerEntry) {
	m.entries[ledgerKey{e.EmployeeID, e.SkillID}] = e
}

func (m *mockLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (skill.LedgerEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return skill.LedgerEntry{}, repository.ErrLedgerEntryNotFound
}

func (m *mockLedgerRepo) FindByEmployee(_ context.Context, employeeID uuid.UUID) ([]skill.LedgerEntry, error) {
	out := make([]skill.LedgerEntry, 0)
	for _, e := range m.entries {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockLedgerRepo) FindByEmployeeAndSkill(_ context.Context, employeeID, skillID uuid.UUID) (skill.LedgerEntry, error) {
	e, ok := m.entries[ledgerKey{employeeID, skillID}]
	if !ok {
		return skill.LedgerEntry{}, repository.ErrLedgerEntryNotFound
	}
	return e, nil
}

func (m *mockLedgerRepo) Create(_ context.Context, e skill.LedgerEntry) (skill.LedgerEntry, error) {
	key := ledgerKey{e.EmployeeID, e.SkillID}
	if _, ok := m.entries[key]; ok {
		return skill.LedgerEntry{}, repository.ErrLedgerEntryConflict
	}
	m.entries[key] = e
	return e, nil
}

func (m *mockLedgerRepo) Update(_ context.Context, e skill.LedgerEntry) (skill.LedgerEntry, error) {
	key := ledgerKey{e.EmployeeID, e.SkillID}
	if _, ok := m.entries[key]; !ok {
		return skill.LedgerEntry{}, repository.ErrLedgerEntryNotFound
	}
	m.entries[key] = e
	return e, nil
}

func (m *mockLedgerRepo) SetVerificationStatus(ctx context.Context, id uuid.UUID, status skill.VerificationStatus) error {
	e, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	e.VerificationStatus = status
	m.put(e)
	m.statuses[id] = status
	return nil
}

func (m *mockLedgerRepo) AddEvidence(_ context.Context, ev skill.Evidence) (skill.Evidence, error) {
	m.evidence[ev.LedgerID] = append(m.evidence[ev.LedgerID], ev)
	return ev, nil
}

func (m *mockLedgerRepo) ListEvidence(_ context.Context, ledgerID uuid.UUID) ([]skill.Evidence, error) {
	return m.evidence[ledgerID], nil
}

func (m *mockLedgerRepo) ListExpiring(context.Context, time.Time) ([]repository.ExpiringEntry, error) {
	return m.expiring, nil
}

type mockScoringRuleRepo struct {
	rules     map[uuid.UUID]scoring.Rule
	lines     map[uuid.UUID][]scoring.RuleLine
	listErr   error
	createErr error
	updateErr error
}

func newMockScoringRuleRepo() *mockScoringRuleRepo {
	return &mockScoringRuleRepo{
		rules: make(map[uuid.UUID]scoring.Rule),
		lines: make(map[uuid.UUID][]scoring.RuleLine),
	}
}

func (m *mockScoringRuleRepo) CreateRule(_ context.Context, rule scoring.Rule) (scoring.Rule, error) {
	m.rules[rule.ID] = rule
	return rule, nil
}

func (m *mockScoringRuleRepo) GetRule(_ context.Context, id uuid.UUID) (scoring.Rule, error) {
	rule, ok := m.rules[id]
	if !ok {
		return scoring.Rule{}, repository.ErrScoringRuleNotFound
	}
	rule.Lines = m.lines[id]
	return rule, nil
}

func (m *mockScoringRuleRepo) ListLines(_ context.Context, ruleID uuid.UUID) ([]scoring.RuleLine, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.lines[ruleID], nil
}

func (m *mockScoringRuleRepo) CreateLine(_ context.Context, line scoring.RuleLine) (scoring.RuleLine, error) {
	if m.createErr != nil {
		return scoring.RuleLine{}, m.createErr
	}
	m.lines[line.RuleID] = append(m.lines[line.RuleID], line)
	return line, nil
}

func (m *mockScoringRuleRepo) UpdateLine(_ context.Context, line scoring.RuleLine) (scoring.RuleLine, error) {
	if m.updateErr != nil {
		return scoring.RuleLine{}, m.updateErr
	}
	for i, ln := range m.lines[line.RuleID] {
		if ln.ID == line.ID {
			m.lines[line.RuleID][i] = line
			return line, nil
		}
	}
	return scoring.RuleLine{}, repository.ErrScoringLineNotFound
}

type mockProfileRepo struct {
	profile      repository.RoleProfile
	hasProfile   bool
	requiredRows []repository.RoleProfileLine
	lineBySkill  map[uuid.UUID]repository.RoleProfileLine
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (repository.RoleProfile, error) {
	if !m.hasProfile || m.profile.ID != id {
		return repository.RoleProfile{}, repository.ErrRoleProfileNotFound
	}
	return m.profile, nil
}

func (m *mockProfileRepo) ResolveForEmployee(context.Context, uuid.UUID, *uuid.UUID, time.Time) (repository.RoleProfile, error) {
	if !m.hasProfile {
		return repository.RoleProfile{}, repository.ErrRoleProfileNotFound
	}
	return m.profile, nil
}

func (m *mockProfileRepo) RequiredLines(context.Context, uuid.UUID) ([]repository.RoleProfileLine, error) {
	return m.requiredRows, nil
}

func (m *mockProfileRepo) LineForSkill(_ context.Context, _, skillID uuid.UUID) (repository.RoleProfileLine, error) {
	ln, ok := m.lineBySkill[skillID]
	if !ok {
		return repository.RoleProfileLine{}, repository.ErrRoleProfileNotFound
	}
	return ln, nil
}

func (m *mockProfileRepo) UpsertByExternalRoleID(context.Context, repository.RoleProfileUpsert) (uuid.UUID, error) {
	return m.profile.ID, nil
}

func (m *mockProfileRepo) UpsertLine(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, bool) error {
	return nil
}

type mockAssessmentRepo struct {
	assessment assessment.Assessment
	maps       []assessment.SkillMap
	attempts   map[uuid.UUID]assessment.Attempt

	appliedWrites []repository.LedgerWrite
}

func newMockAssessmentRepo(a assessment.Assessment) *mockAssessmentRepo {
	return &mockAssessmentRepo{
		assessment: a,
		attempts:   make(map[uuid.UUID]assessment.Attempt),
	}
}

func (m *mockAssessmentRepo) GetAssessment(_ context.Context, id uuid.UUID) (assessment.Assessment, error) {
	if m.assessment.ID != id {
		return assessment.Assessment{}, repository.ErrAssessmentNotFound
	}
	return m.assessment, nil
}

func (m *mockAssessmentRepo) ListSkillMaps(context.Context, uuid.UUID) ([]assessment.SkillMap, error) {
	return m.maps, nil
}

func (m *mockAssessmentRepo) CreateAttempt(_ context.Context, a assessment.Attempt) (assessment.Attempt, error) {
	m.attempts[a.ID] = a
	return a, nil
}

func (m *mockAssessmentRepo) GetAttempt(_ context.Context, id uuid.UUID) (assessment.Attempt, error) {
	a, ok := m.attempts[id]
	if !ok {
		return assessment.Attempt{}, repository.ErrAttemptNotFound
	}
	return a, nil
}

func (m *mockAssessmentRepo) ApplyResult(_ context.Context, attemptID uuid.UUID, awardedLevelID *uuid.UUID, completedOn time.Time, writes []repository.LedgerWrite) error {
	a, ok := m.attempts[attemptID]
	if !ok || a.State != assessment.AttemptDraft {
		return repository.ErrAttemptNotFound
	}
	a.AwardedLevelID = awardedLevelID
	a.State = assessment.AttemptDone
	a.CompletedOn = &completedOn
	m.attempts[attemptID] = a
	m.appliedWrites = writes
	return nil
}

type mockCourseRequestRepo struct {
	course   course.Course
	requests map[uuid.UUID]course.Request
	steps    map[uuid.UUID][]course.ApprovalStep
	nextNum  int
}

func newMockCourseRequestRepo(c course.Course) *mockCourseRequestRepo {
	return &mockCourseRequestRepo{
		course:   c,
		requests: make(map[uuid.UUID]course.Request),
		steps:    make(map[uuid.UUID][]course.ApprovalStep),
		nextNum:  1,
	}
}

func (m *mockCourseRequestRepo) GetCourse(_ context.Context, id uuid.UUID) (course.Course, error) {
	if m.course.ID != id {
		return course.Course{}, repository.ErrCourseNotFound
	}
	return m.course, nil
}

func (m *mockCourseRequestRepo) CreateRequest(_ context.Context, req course.Request) (course.Request, error) {
	for _, existing := range m.requests {
		if existing.EmployeeID == req.EmployeeID && existing.CourseID == req.CourseID && existing.State == req.State {
			return course.Request{}, repository.ErrCourseRequestConflict
		}
	}
	if req.Number == "" || req.Number == "New" {
		req.Number = "CR00001"
		m.nextNum++
	}
	m.requests[req.ID] = req
	return req, nil
}

func (m *mockCourseRequestRepo) GetRequest(_ context.Context, id uuid.UUID) (course.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return course.Request{}, repository.ErrCourseRequestNotFound
	}
	return req, nil
}

func (m *mockCourseRequestRepo) Transition(_ context.Context, requestID uuid.UUID, from, to course.RequestState, approvedOn, completedOn *time.Time, step *course.ApprovalStep) error {
	req, ok := m.requests[requestID]
	if !ok || req.State != from {
		return repository.ErrRequestStateChanged
	}
	req.State = to
	if approvedOn != nil {
		req.ApprovedOn = approvedOn
	}
	if completedOn != nil {
		req.CompletedOn = completedOn
	}
	m.requests[requestID] = req
	if step != nil {
		m.steps[requestID] = append(m.steps[requestID], *step)
	}
	return nil
}

func (m *mockCourseRequestRepo) ListSteps(_ context.Context, requestID uuid.UUID) ([]course.ApprovalStep, error) {
	return m.steps[requestID], nil
}

type mockCapabilityChecker struct {
	capabilities map[uuid.UUID]map[string]bool
}

func (m *mockCapabilityChecker) HasCapability(_ context.Context, userID uuid.UUID, capability string) (bool, error) {
	return m.capabilities[userID][capability], nil
}

type sentNotification struct {
	UserID uuid.UUID
	Text   string
}

type mockSink struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (m *mockSink) Notify(_ context.Context, userID uuid.UUID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentNotification{UserID: userID, Text: text})
}
