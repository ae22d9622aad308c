// Package postgres loads ordered CSP rulesets from a PostgreSQL table,
// for deployments that manage policies centrally instead of in files.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/devmarvs/csp"
)

// Driver is the database/sql driver name registered by pgx.
const Driver = "pgx"

// DefaultTable is the ruleset table consulted when none is configured.
// Schema: position int, patterns text (comma-separated), policy text
// (serialized in the canonical "; "-joined form).
const DefaultTable = "csp_rulesets"

const defaultTimeout = 5 * time.Second

// Options configures ruleset loading.
type Options struct {
	DB      *sql.DB
	Table   string
	Timeout time.Duration
}

// Open opens a PostgreSQL connection through the pgx driver.
func Open(dsn string) (*sql.DB, error) {
	return sql.Open(Driver, dsn)
}

var validTable = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// LoadRulesets reads rulesets ordered by position. Any invalid pattern
// or policy row fails the whole load.
func LoadRulesets(ctx context.Context, options Options) ([]*csp.PathRuleset, error) {
	if options.DB == nil {
		return nil, errors.New("postgres: db is required")
	}
	table := strings.TrimSpace(options.Table)
	if table == "" {
		table = DefaultTable
	}
	if !validTable.MatchString(table) {
		return nil, fmt.Errorf("postgres: invalid table name: %s", table)
	}
	timeout := options.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	query := fmt.Sprintf("SELECT position, patterns, policy FROM %s ORDER BY position", table)
	rows, err := options.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: query rulesets: %w", err)
	}
	defer rows.Close()

	var rulesets []*csp.PathRuleset
	for rows.Next() {
		var (
			position int
			patterns string
			policy   string
		)
		if err := rows.Scan(&position, &patterns, &policy); err != nil {
			return nil, fmt.Errorf("postgres: scan ruleset: %w", err)
		}
		ruleset, err := buildRuleset(patterns, policy)
		if err != nil {
			return nil, fmt.Errorf("postgres: ruleset at position %d: %w", position, err)
		}
		rulesets = append(rulesets, ruleset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read rulesets: %w", err)
	}
	return rulesets, nil
}

// LoadResolver loads the rulesets into a first-match resolver.
func LoadResolver(ctx context.Context, options Options) (*csp.Resolver, error) {
	rulesets, err := LoadRulesets(ctx, options)
	if err != nil {
		return nil, err
	}
	return csp.NewResolver(rulesets...), nil
}

func buildRuleset(patterns, policy string) (*csp.PathRuleset, error) {
	var split []string
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		split = append(split, pattern)
	}
	directives, err := csp.ParsePolicy(policy)
	if err != nil {
		return nil, err
	}
	return csp.NewPathRuleset(split, directives...)
}
