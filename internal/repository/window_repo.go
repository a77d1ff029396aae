package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"team-pulse/internal/domain"
)

type WindowRepository interface {
	// MergeAbsorb hace upsert aditivo: si la ventana existe, suma los
	// contadores en el mismo statement. Es la unica operacion de escritura
	// concurrente del motor y no necesita lock global.
	MergeAbsorb(ctx context.Context, w domain.AggregationWindow) error
	Get(ctx context.Context, userID, orgID, channelType string, periodStart time.Time) (domain.AggregationWindow, error)
	ListByUser(ctx context.Context, userID, orgID string, limit int) ([]domain.AggregationWindow, error)
	ListByOrgPeriod(ctx context.Context, orgID string, from, to time.Time) ([]domain.AggregationWindow, error)
	ListBefore(ctx context.Context, horizon time.Time) ([]domain.AggregationWindow, error)
	// Compact escribe la ventana rollup y borra las ventanas finas que
	// absorbio en una sola transaccion: o se compacta todo o nada.
	Compact(ctx context.Context, rollup domain.AggregationWindow, fineIDs []string) error
}

type PgWindowRepository struct {
	pool *pgxpool.Pool
}

func NewPgWindowRepository(pool *pgxpool.Pool) *PgWindowRepository {
	return &PgWindowRepository{pool: pool}
}

const windowColumns = `
	id, user_id, organization_id, channel_type, period_start, period_end,
	message_count, word_sum, char_sum, positive_count, neutral_count, negative_count,
	question_sum, exclamation_sum, emoji_sum, formality_sum,
	response_time_sum, response_time_count, initiated_count,
	kw_achievement, kw_social, kw_cognitive, kw_planning, kw_positive_emotion, kw_negative_emotion,
	low_quality_count, created_at, updated_at
`

// pgExecer cubre pool y transaccion; el upsert aditivo corre sobre ambos.
type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func execMergeAbsorb(ctx context.Context, db pgExecer, w domain.AggregationWindow) error {
	const query = `
		INSERT INTO aggregation_windows (
			id, user_id, organization_id, channel_type, period_start, period_end,
			message_count, word_sum, char_sum, positive_count, neutral_count, negative_count,
			question_sum, exclamation_sum, emoji_sum, formality_sum,
			response_time_sum, response_time_count, initiated_count,
			kw_achievement, kw_social, kw_cognitive, kw_planning, kw_positive_emotion, kw_negative_emotion,
			low_quality_count, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
		ON CONFLICT (user_id, organization_id, channel_type, period_start)
		DO UPDATE SET
			message_count = aggregation_windows.message_count + EXCLUDED.message_count,
			word_sum = aggregation_windows.word_sum + EXCLUDED.word_sum,
			char_sum = aggregation_windows.char_sum + EXCLUDED.char_sum,
			positive_count = aggregation_windows.positive_count + EXCLUDED.positive_count,
			neutral_count = aggregation_windows.neutral_count + EXCLUDED.neutral_count,
			negative_count = aggregation_windows.negative_count + EXCLUDED.negative_count,
			question_sum = aggregation_windows.question_sum + EXCLUDED.question_sum,
			exclamation_sum = aggregation_windows.exclamation_sum + EXCLUDED.exclamation_sum,
			emoji_sum = aggregation_windows.emoji_sum + EXCLUDED.emoji_sum,
			formality_sum = aggregation_windows.formality_sum + EXCLUDED.formality_sum,
			response_time_sum = aggregation_windows.response_time_sum + EXCLUDED.response_time_sum,
			response_time_count = aggregation_windows.response_time_count + EXCLUDED.response_time_count,
			initiated_count = aggregation_windows.initiated_count + EXCLUDED.initiated_count,
			kw_achievement = aggregation_windows.kw_achievement + EXCLUDED.kw_achievement,
			kw_social = aggregation_windows.kw_social + EXCLUDED.kw_social,
			kw_cognitive = aggregation_windows.kw_cognitive + EXCLUDED.kw_cognitive,
			kw_planning = aggregation_windows.kw_planning + EXCLUDED.kw_planning,
			kw_positive_emotion = aggregation_windows.kw_positive_emotion + EXCLUDED.kw_positive_emotion,
			kw_negative_emotion = aggregation_windows.kw_negative_emotion + EXCLUDED.kw_negative_emotion,
			low_quality_count = aggregation_windows.low_quality_count + EXCLUDED.low_quality_count,
			updated_at = EXCLUDED.updated_at
	`

	kw := w.KeywordCounts
	_, err := db.Exec(ctx, query,
		w.ID, w.UserID, w.OrganizationID, w.ChannelType, w.PeriodStart, w.PeriodEnd,
		w.MessageCount, w.WordSum, w.CharSum, w.PositiveCount, w.NeutralCount, w.NegativeCount,
		w.QuestionSum, w.ExclamationSum, w.EmojiSum, w.FormalitySum,
		w.ResponseTimeSum, w.ResponseTimeCount, w.InitiatedCount,
		kw[domain.KeywordAchievement], kw[domain.KeywordSocial], kw[domain.KeywordCognitive],
		kw[domain.KeywordPlanning], kw[domain.KeywordPositiveEmotion], kw[domain.KeywordNegativeEmotion],
		w.LowQualityCount, w.CreatedAt, w.UpdatedAt,
	)
	return err
}

func (r *PgWindowRepository) MergeAbsorb(ctx context.Context, w domain.AggregationWindow) error {
	return execMergeAbsorb(ctx, r.pool, w)
}

func (r *PgWindowRepository) Compact(ctx context.Context, rollup domain.AggregationWindow, fineIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := execMergeAbsorb(ctx, tx, rollup); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM aggregation_windows WHERE id = ANY($1)`, fineIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgWindowRepository) Get(ctx context.Context, userID, orgID, channelType string, periodStart time.Time) (domain.AggregationWindow, error) {
	query := `SELECT ` + windowColumns + `
		FROM aggregation_windows
		WHERE user_id = $1 AND organization_id = $2 AND channel_type = $3 AND period_start = $4
	`
	row := r.pool.QueryRow(ctx, query, userID, orgID, channelType, periodStart)
	return scanWindow(row)
}

func (r *PgWindowRepository) ListByUser(ctx context.Context, userID, orgID string, limit int) ([]domain.AggregationWindow, error) {
	query := `SELECT ` + windowColumns + `
		FROM aggregation_windows
		WHERE user_id = $1 AND organization_id = $2
		ORDER BY period_start DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, userID, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWindows(rows)
}

func (r *PgWindowRepository) ListByOrgPeriod(ctx context.Context, orgID string, from, to time.Time) ([]domain.AggregationWindow, error) {
	query := `SELECT ` + windowColumns + `
		FROM aggregation_windows
		WHERE organization_id = $1 AND period_start >= $2 AND period_start < $3
		ORDER BY user_id, period_start
	`
	rows, err := r.pool.Query(ctx, query, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWindows(rows)
}

func (r *PgWindowRepository) ListBefore(ctx context.Context, horizon time.Time) ([]domain.AggregationWindow, error) {
	query := `SELECT ` + windowColumns + `
		FROM aggregation_windows
		WHERE period_end < $1
		ORDER BY user_id, organization_id, channel_type, period_start
	`
	rows, err := r.pool.Query(ctx, query, horizon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWindows(rows)
}

func scanWindow(row pgx.Row) (domain.AggregationWindow, error) {
	var w domain.AggregationWindow
	var kwAch, kwSoc, kwCog, kwPlan, kwPos, kwNeg int

	err := row.Scan(
		&w.ID, &w.UserID, &w.OrganizationID, &w.ChannelType, &w.PeriodStart, &w.PeriodEnd,
		&w.MessageCount, &w.WordSum, &w.CharSum, &w.PositiveCount, &w.NeutralCount, &w.NegativeCount,
		&w.QuestionSum, &w.ExclamationSum, &w.EmojiSum, &w.FormalitySum,
		&w.ResponseTimeSum, &w.ResponseTimeCount, &w.InitiatedCount,
		&kwAch, &kwSoc, &kwCog, &kwPlan, &kwPos, &kwNeg,
		&w.LowQualityCount, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return domain.AggregationWindow{}, err
	}
	w.KeywordCounts = map[string]int{
		domain.KeywordAchievement:     kwAch,
		domain.KeywordSocial:          kwSoc,
		domain.KeywordCognitive:       kwCog,
		domain.KeywordPlanning:        kwPlan,
		domain.KeywordPositiveEmotion: kwPos,
		domain.KeywordNegativeEmotion: kwNeg,
	}
	return w, nil
}

func scanWindows(rows pgx.Rows) ([]domain.AggregationWindow, error) {
	var windows []domain.AggregationWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return windows, nil
}
