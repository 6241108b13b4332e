package storage

import (
	"fmt"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	. "parrot/common"
	"parrot/emoji"
)

var txMutex sync.Mutex
var txLastWrite time.Time

// LastWrite is the time of the most recent committed write.
func LastWrite() time.Time {
	txMutex.Lock()
	defer txMutex.Unlock()
	return txLastWrite
}

type Transaction struct {
	conn    *sqlite.Conn
	commit  func(*error)
	isWrite bool
}

func NewTransaction(conn *sqlite.Conn) *Transaction {
	return &Transaction{
		conn:    conn,
		commit:  nil,
		isWrite: false,
	}
}

func (tx *Transaction) MarkAsWrite() *Transaction {
	tx.isWrite = true
	return tx
}

func (tx *Transaction) UpdateLastWrite() {
	txMutex.Lock()
	defer txMutex.Unlock()
	now := time.Now()
	if now.After(txLastWrite) {
		txLastWrite = now
	}
}

func (tx *Transaction) Start() {
	if tx.commit != nil {
		return
	}
	tx.commit = sqlitex.Transaction(tx.conn)
	if tx.commit == nil {
		panic("failed to begin transaction")
	}
}

func (tx *Transaction) Commit(err error) {
	if tx.commit == nil {
		return
	}

	var noError error = nil
	if err != nil {
		tx.commit(&err)
	} else {
		tx.commit(&noError)
		if tx.isWrite {
			tx.UpdateLastWrite()
		}
	}
	tx.commit = nil
}

func (tx *Transaction) Prepare(query string) *sqlite.Stmt {
	if tx.isWrite && tx.commit == nil {
		panic("writes must be inside of a transaction")
	}

	stmt, err := tx.conn.Prepare(query)
	if err != nil {
		panic(fmt.Errorf("failed to prepare statement: %w", err))
	}
	return stmt
}

func (tx Transaction) Finish(stmt *sqlite.Stmt) {
	if err := stmt.Reset(); err != nil {
		panic(fmt.Errorf("failed to reset statement: %w", err))
	}
	if err := stmt.ClearBindings(); err != nil {
		panic(fmt.Errorf("failed to clear bindings: %w", err))
	}
}

func (tx *Transaction) Execute(stmt *sqlite.Stmt) (bool, error) {
	hasRow, err := stmt.Step()
	if err != nil {
		return false, fmt.Errorf("failed to execute statement: %w", err)
	}
	return hasRow, nil
}

// Data Access Layer

// RecordUsage bumps the counter of every token, creating rows for
// emoji seen for the first time.
func (tx *Transaction) RecordUsage(tokens []emoji.Token, when time.Time) error {
	tx.MarkAsWrite()

	query := `
		INSERT INTO emoji_usage(emoji, kind, count, first_seen, last_seen)
		VALUES ($emoji, $kind, 1, $when, $when)
		ON CONFLICT(emoji, kind) DO UPDATE SET
			count = count + 1,
			last_seen = $when;`

	stmt := tx.Prepare(query)
	defer tx.Finish(stmt)

	for _, token := range tokens {
		stmt.SetText("$emoji", token.String())
		stmt.SetInt64("$kind", int64(token.Kind))
		stmt.SetInt64("$when", when.UnixMilli())

		if _, err := tx.Execute(stmt); err != nil {
			return fmt.Errorf("failed to record usage: %w", err)
		}

		tx.Finish(stmt)
	}

	return nil
}

// TopUsage returns the most used emoji, ties broken by the emoji text
// so the order is stable.
func (tx *Transaction) TopUsage(limit int) []Usage {
	query := `SELECT
			emoji,
			kind,
			count,
			first_seen,
			last_seen
		FROM
			emoji_usage
		ORDER BY count DESC, emoji ASC
		LIMIT $limit;`

	stmt := tx.Prepare(query)
	defer tx.Finish(stmt)

	stmt.SetInt64("$limit", int64(limit))

	usage := []Usage{}
	for hasRow, _ := stmt.Step(); hasRow; hasRow, _ = stmt.Step() {
		usage = append(usage, Usage{
			Emoji:     stmt.GetText("emoji"),
			Kind:      int(stmt.GetInt64("kind")),
			Count:     int(stmt.GetInt64("count")),
			FirstSeen: int(stmt.GetInt64("first_seen")),
			LastSeen:  int(stmt.GetInt64("last_seen")),
		})
	}

	return usage
}

// UsageTotal is the total number of tokens ever recorded.
func (tx *Transaction) UsageTotal() int {
	query := `SELECT COALESCE(SUM(count), 0) AS total FROM emoji_usage;`

	stmt := tx.Prepare(query)
	defer tx.Finish(stmt)

	total := 0
	for hasRow, _ := stmt.Step(); hasRow; hasRow, _ = stmt.Step() {
		total = int(stmt.GetInt64("total"))
	}

	return total
}

// GetUsage returns the counter row for one emoji, as rendered by
// Token.String.
func (tx *Transaction) GetUsage(emojiText string, kind int) (Usage, error) {
	query := `SELECT
			emoji,
			kind,
			count,
			first_seen,
			last_seen
		FROM
			emoji_usage
		WHERE emoji = $emoji AND kind = $kind;`

	stmt := tx.Prepare(query)
	defer tx.Finish(stmt)

	stmt.SetText("$emoji", emojiText)
	stmt.SetInt64("$kind", int64(kind))

	for hasRow, _ := stmt.Step(); hasRow; hasRow, _ = stmt.Step() {
		return Usage{
			Emoji:     stmt.GetText("emoji"),
			Kind:      int(stmt.GetInt64("kind")),
			Count:     int(stmt.GetInt64("count")),
			FirstSeen: int(stmt.GetInt64("first_seen")),
			LastSeen:  int(stmt.GetInt64("last_seen")),
		}, nil
	}

	return Usage{}, NewError(ErrorCodeInvalidRequest, fmt.Errorf("no usage recorded for %q", emojiText))
}
