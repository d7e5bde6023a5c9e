package usage

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS usage_records (
			user_id              TEXT PRIMARY KEY,
			transformations_used INTEGER NOT NULL DEFAULT 0 CHECK (transformations_used >= 0),
			last_reset           TIMESTAMPTZ NOT NULL,
			history              JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	queryEnsureRecord = `
		INSERT INTO usage_records (user_id, transformations_used, last_reset, history)
		VALUES ($1, 0, $2, '[]'::jsonb)
		ON CONFLICT (user_id) DO NOTHING
	`

	querySelectRecord = `
		SELECT user_id, transformations_used, last_reset, history
		FROM usage_records
		WHERE user_id = $1
	`

	// row lock held until commit; serializes concurrent increments and resets
	querySelectRecordForUpdate = `
		SELECT user_id, transformations_used, last_reset, history
		FROM usage_records
		WHERE user_id = $1
		FOR UPDATE
	`

	queryUpdateRecord = `
		UPDATE usage_records
		SET transformations_used = $2, last_reset = $3, history = $4::jsonb, updated_at = NOW()
		WHERE user_id = $1
	`

	querySelectAll = `
		SELECT user_id, transformations_used, last_reset, history
		FROM usage_records
	`
)
