package chunk

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wareflow/datev-export/datevexport"
	"github.com/wareflow/datev-export/datevexport/log"
)

// sqlTimeLayout is the DATETIME(3) literal layout used for UTC boundaries.
const sqlTimeLayout = "2006-01-02 15:04:05.000"

// documentDateExpr resolves a document's business date: the JSON config field
// when present, the creation date otherwise.
const documentDateExpr = "COALESCE(JSON_UNQUOTE(JSON_EXTRACT(document.config, '$.documentDate')), document.created_at)"

// Store runs the hand-written chunk queries against the shop database.
type Store struct {
	db     *sql.DB
	logger log.Logger
}

// NewStore creates a chunk store. A nil logger falls back to a no-op logger.
func NewStore(db *sql.DB, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Store{db: db, logger: logger}
}

// Count returns the number of exportable documents matching the profile.
func (s *Store) Count(ctx context.Context, profile datevexport.ExportProfile) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(document.id)
		FROM document
		INNER JOIN sales_order ON sales_order.id = document.order_id
		INNER JOIN sales_channel ON sales_channel.id = sales_order.sales_channel_id
		WHERE document.document_type IN (%s)
		  AND sales_order.sales_channel_id = ?
		  AND sales_channel.type_name <> ?
		  AND %s BETWEEN ? AND ?`,
		placeholders(len(profile.DocumentTypes)), documentDateExpr)

	args := filterArgs(profile)

	count := 0

	err := s.withUTCSession(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count exportable documents: %w", err)
	}

	return count, nil
}

// Window returns chunkSize exportable document ids at the given offset,
// ordered by (document date, id). The export's creation timestamp bounds the
// window so documents created mid-export never shift the pagination.
func (s *Store) Window(
	ctx context.Context,
	profile datevexport.ExportProfile,
	export datevexport.Export,
	chunkSize, offset int,
) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT document.id
		FROM document
		INNER JOIN sales_order ON sales_order.id = document.order_id
		INNER JOIN sales_channel ON sales_channel.id = sales_order.sales_channel_id
		WHERE document.document_type IN (%s)
		  AND sales_order.sales_channel_id = ?
		  AND sales_channel.type_name <> ?
		  AND %s BETWEEN ? AND ?
		  AND document.created_at <= ?
		ORDER BY %s ASC, document.id ASC
		LIMIT ? OFFSET ?`,
		placeholders(len(profile.DocumentTypes)), documentDateExpr, documentDateExpr)

	args := filterArgs(profile)
	args = append(args, export.CreatedAt.UTC().Format(sqlTimeLayout), chunkSize, offset)

	var ids []string

	err := s.withUTCSession(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}

			ids = append(ids, id)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("window exportable documents: %w", err)
	}

	return ids, nil
}

// DistinctSalesChannels returns the distinct sales channel ids behind the
// given documents. The record creator uses it to enforce its single-channel
// precondition.
func (s *Store) DistinctSalesChannels(ctx context.Context, documentIDs []string) ([]string, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT sales_order.sales_channel_id
		FROM document
		INNER JOIN sales_order ON sales_order.id = document.order_id
		WHERE document.id IN (%s)`,
		placeholders(len(documentIDs)))

	args := make([]any, 0, len(documentIDs))
	for _, id := range documentIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("look up sales channels: %w", err)
	}
	defer rows.Close()

	var channels []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("look up sales channels: %w", err)
		}

		channels = append(channels, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("look up sales channels: %w", err)
	}

	return channels, nil
}

// withUTCSession pins a connection, forces its session time zone to UTC, and
// restores the previous zone on every exit path. Session variables only stick
// to a single connection, so this must not run on the *sql.DB pool directly.
func (s *Store) withUTCSession(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var previous string
	if err := conn.QueryRowContext(ctx, "SELECT @@session.time_zone").Scan(&previous); err != nil {
		return fmt.Errorf("read session time zone: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "SET time_zone = '+00:00'"); err != nil {
		return fmt.Errorf("set session time zone: %w", err)
	}

	defer func() {
		// Restoration must survive a canceled request context.
		restoreCtx := context.WithoutCancel(ctx)
		if _, restoreErr := conn.ExecContext(restoreCtx, "SET time_zone = ?", previous); restoreErr != nil {
			s.logger.Log(ctx, log.LevelError, "failed to restore session time zone", log.Err(restoreErr))
		}
	}()

	return fn(conn)
}

// filterArgs builds the shared filter arguments of Count and Window.
func filterArgs(profile datevexport.ExportProfile) []any {
	args := make([]any, 0, len(profile.DocumentTypes)+4)

	for _, documentType := range profile.DocumentTypes {
		args = append(args, string(documentType))
	}

	args = append(args,
		profile.SalesChannelID,
		datevexport.SalesChannelTypePOS,
		profile.Start.UTC().Format(sqlTimeLayout),
		profile.End.UTC().Format(sqlTimeLayout),
	)

	return args
}

// placeholders renders n comma-separated SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return "NULL"
	}

	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
