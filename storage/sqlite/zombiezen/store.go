package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/revelaction/morphrob/conllu"
	"github.com/revelaction/morphrob/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Store serves annotated articles from a SQLite database with a lemma
// index.
type Store struct {
	pool *sqlitex.Pool
}

var _ storage.Repository = (*Store)(nil)

func NewStore(pool *sqlitex.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) List() ([]storage.ArticleInfo, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var infos []storage.ArticleInfo
	err = sqlitex.Execute(conn, "SELECT id, sentences FROM articles ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			infos = append(infos, storage.ArticleInfo{
				ID:        stmt.ColumnInt(0),
				Sentences: stmt.ColumnInt(1),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *Store) Read(id int) (storage.Annotated, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return storage.Annotated{}, err
	}
	defer s.pool.Put(conn)

	a := storage.Annotated{ID: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT position, text, tokens FROM sentences WHERE article_id = ? ORDER BY position", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			sentence := conllu.Sentence{
				Position: stmt.ColumnInt(0),
				Text:     stmt.ColumnText(1),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(2)), &sentence.Tokens); err != nil {
				return err
			}
			a.Sentences = append(a.Sentences, sentence)
			return nil
		},
	})
	if err != nil {
		return storage.Annotated{}, err
	}
	if !found {
		return storage.Annotated{}, fmt.Errorf("article not found: %d", id)
	}

	return a, nil
}

func (s *Store) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(storage.SentenceResult) error) (storage.Cursor, error) {
	if len(lemmas) == 0 {
		return after, nil
	}

	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return after, err
	}
	defer s.pool.Put(conn)

	// Build query dynamically based on number of lemmas. INTERSECT ensures
	// we only get sentence rowids that contain ALL lemmas, and guarantees
	// the resulting rowid set is unique.
	var queryBuilder strings.Builder
	var args []interface{}

	for i, lemma := range lemmas {
		if i > 0 {
			queryBuilder.WriteString(" INTERSECT ")
		}
		queryBuilder.WriteString("SELECT sentence_rowid FROM sentence_lemmas WHERE lemma = ? AND sentence_rowid > ?")
		args = append(args, lemma, after)
	}
	queryBuilder.WriteString(" LIMIT ?")
	args = append(args, limit)

	var rowIDs []int64
	err = sqlitex.Execute(conn, queryBuilder.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowIDs = append(rowIDs, stmt.ColumnInt64(0))
			return nil
		},
	})
	if err != nil {
		return after, err
	}

	if len(rowIDs) == 0 {
		return after, nil
	}

	idStrings := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		idStrings[i] = strconv.FormatInt(id, 10)
	}
	idList := strings.Join(idStrings, ",")

	newCursor := after
	query := fmt.Sprintf("SELECT rowid, article_id, position, text, tokens FROM sentences WHERE rowid IN (%s) ORDER BY rowid", idList)

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowID := stmt.ColumnInt64(0)
			if storage.Cursor(rowID) > newCursor {
				newCursor = storage.Cursor(rowID)
			}

			res := storage.SentenceResult{
				RowID:     rowID,
				ArticleID: stmt.ColumnInt(1),
				Sentence: conllu.Sentence{
					Position: stmt.ColumnInt(2),
					Text:     stmt.ColumnText(3),
				},
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(4)), &res.Sentence.Tokens); err != nil {
				return err
			}
			return onCandidate(res)
		},
	})
	if err != nil {
		return after, err
	}

	return newCursor, nil
}

func (s *Store) Write(a storage.Annotated) (err error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	// Transaction
	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "INSERT OR REPLACE INTO articles (id, sentences) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{a.ID, len(a.Sentences)},
	})
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	for _, sentence := range a.Sentences {
		tokens, marshalErr := json.Marshal(sentence.Tokens)
		if marshalErr != nil {
			return marshalErr
		}

		err = sqlitex.Execute(conn, "INSERT INTO sentences (article_id, position, text, tokens) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{a.ID, sentence.Position, sentence.Text, string(tokens)},
		})
		if err != nil {
			return fmt.Errorf("failed to insert sentence: %w", err)
		}
		sentRowID := conn.LastInsertRowID()

		for _, lemma := range sentence.Lemmas() {
			err = sqlitex.Execute(conn, "INSERT INTO sentence_lemmas (lemma, sentence_rowid) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []interface{}{lemma, sentRowID},
			})
			if err != nil {
				return fmt.Errorf("failed to insert lemma: %w", err)
			}
		}
	}

	return nil
}
