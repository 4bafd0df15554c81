package database

import (
	"context"
	"fmt"
	"strings"
)

// AtomicBatch accumulates statements and executes them as one SurrealDB
// transaction. Variables from each statement are namespaced ($email becomes
// $v1_email) so statements from different sources cannot collide.
//
// The tracker relies on this for its two multi-statement writes: the
// bootstrap-admin precondition (count check + create must be atomic, the
// store executes the whole block as a serialized transaction) and MDA
// creation, where the agency, its 7 reforms, and every template activity are
// inserted together or not at all.
//
//	batch := database.NewAtomicBatch()
//	batch.Add(query1, vars1)
//	batch.Add(query2, vars2)
//	err := batch.Execute(ctx, db) // all or nothing
type AtomicBatch struct {
	statements []string
	vars       map[string]interface{}
	varCounter int
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		vars: make(map[string]interface{}),
	}
}

// Add appends a statement to the batch, namespacing its variables.
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	newQuery := query
	for name, value := range vars {
		ab.varCounter++
		namespaced := fmt.Sprintf("v%d_%s", ab.varCounter, name)
		newQuery = strings.ReplaceAll(newQuery, "$"+name, "$"+namespaced)
		ab.vars[namespaced] = value
	}
	ab.statements = append(ab.statements, newQuery)
	return ab
}

// AddRaw appends a statement without variable substitution.
func (ab *AtomicBatch) AddRaw(query string) *AtomicBatch {
	ab.statements = append(ab.statements, query)
	return ab
}

// Len returns the number of accumulated statements.
func (ab *AtomicBatch) Len() int {
	return len(ab.statements)
}

// Build returns the complete transaction query and merged variables.
func (ab *AtomicBatch) Build() (string, map[string]interface{}) {
	if len(ab.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range ab.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), ab.vars
}

// Execute runs all statements as a single transaction.
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(ab.statements) == 0 {
		return nil
	}
	query, vars := ab.Build()
	return db.Execute(ctx, query, vars)
}
