package repository

import (
	"context"
	"database/sql"
	"errors"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/scoring"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrScoringRuleNotFound = errors.New("scoring rule not found")
	ErrScoringLineNotFound = errors.New("scoring rule line not found")
	ErrScoringLineConflict = errors.New("scoring rule line conflicts with a sibling range")
)

type ScoringRuleRepository interface {
	CreateRule(ctx context.Context, rule scoring.Rule) (scoring.Rule, error)
	GetRule(ctx context.Context, id uuid.UUID) (scoring.Rule, error)
	ListLines(ctx context.Context, ruleID uuid.UUID) ([]scoring.RuleLine, error)
	CreateLine(ctx context.Context, line scoring.RuleLine) (scoring.RuleLine, error)
	UpdateLine(ctx context.Context, line scoring.RuleLine) (scoring.RuleLine, error)
}

type PostgresScoringRuleRepository struct {
	db database.DB
}

func NewPostgresScoringRuleRepository(db database.DB) *PostgresScoringRuleRepository {
	return &PostgresScoringRuleRepository{db: db}
}

func (r *PostgresScoringRuleRepository) CreateRule(ctx context.Context, rule scoring.Rule) (scoring.Rule, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO scoring_rules (id, name) VALUES ($1, $2)`,
		rule.ID, rule.Name,
	)
	if err != nil {
		return scoring.Rule{}, err
	}
	return rule, nil
}

func (r *PostgresScoringRuleRepository) GetRule(ctx context.Context, id uuid.UUID) (scoring.Rule, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name FROM scoring_rules WHERE id = $1`, id)

	var rule scoring.Rule
	if err := row.Scan(&rule.ID, &rule.Name); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return scoring.Rule{}, ErrScoringRuleNotFound
		}
		return scoring.Rule{}, err
	}

	lines, err := r.ListLines(ctx, id)
	if err != nil {
		return scoring.Rule{}, err
	}
	rule.Lines = lines
	return rule, nil
}

func (r *PostgresScoringRuleRepository) ListLines(ctx context.Context, ruleID uuid.UUID) ([]scoring.RuleLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, rule_id, min_score, max_score, level_id
		 FROM scoring_rule_lines
		 WHERE rule_id = $1
		 ORDER BY min_score ASC`,
		ruleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]scoring.RuleLine, 0)
	for rows.Next() {
		var ln scoring.RuleLine
		if err := rows.Scan(&ln.ID, &ln.RuleID, &ln.MinScore, &ln.MaxScore, &ln.LevelID); err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresScoringRuleRepository) CreateLine(ctx context.Context, line scoring.RuleLine) (scoring.RuleLine, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO scoring_rule_lines (id, rule_id, min_score, max_score, level_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		line.ID, line.RuleID, line.MinScore, line.MaxScore, line.LevelID,
	)
	if err != nil {
		if IsExclusionViolation(err) {
			return scoring.RuleLine{}, ErrScoringLineConflict
		}
		return scoring.RuleLine{}, err
	}
	return line, nil
}

func (r *PostgresScoringRuleRepository) UpdateLine(ctx context.Context, line scoring.RuleLine) (scoring.RuleLine, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE scoring_rule_lines
		 SET min_score = $1, max_score = $2, level_id = $3
		 WHERE id = $4 AND rule_id = $5`,
		line.MinScore, line.MaxScore, line.LevelID, line.ID, line.RuleID,
	)
	if err != nil {
		if IsExclusionViolation(err) {
			return scoring.RuleLine{}, ErrScoringLineConflict
		}
		return scoring.RuleLine{}, err
	}
	if affected == 0 {
		return scoring.RuleLine{}, ErrScoringLineNotFound
	}
	return line, nil
}
