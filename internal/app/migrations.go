package app

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGINT PRIMARY KEY,
    username VARCHAR(255) NOT NULL DEFAULT '',
    referral_code VARCHAR(32) UNIQUE NOT NULL,
    referrer_id BIGINT,
    wallet_address VARCHAR(64),
    wallet_pending VARCHAR(64),
    wallet_change_count INT NOT NULL DEFAULT 0,
    state TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
-- Частичный уникальный индекс: активный адрес принадлежит одному
-- пользователю, NULL-ы не конфликтуют.
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_wallet_address
    ON users(wallet_address) WHERE wallet_address IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_users_referrer_id ON users(referrer_id);
`

var migration002Ledger = `
CREATE TABLE IF NOT EXISTS ledger (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    idempotency_key VARCHAR(128) NOT NULL,
    category VARCHAR(32) NOT NULL,
    amount BIGINT NOT NULL,
    meta JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, idempotency_key)
);
CREATE INDEX IF NOT EXISTS idx_ledger_user_id ON ledger(user_id);
`

var migration003Missions = `
CREATE TABLE IF NOT EXISTS submissions (
    user_id BIGINT NOT NULL REFERENCES users(id),
    mission_id VARCHAR(64) NOT NULL,
    payload TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, mission_id)
);
CREATE TABLE IF NOT EXISTS fingerprints (
    mission_id VARCHAR(64) NOT NULL,
    digest CHAR(64) NOT NULL,
    user_id BIGINT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (mission_id, digest)
);
`

var migration004Rewards = `
CREATE TABLE IF NOT EXISTS pending_rewards (
    user_id BIGINT NOT NULL REFERENCES users(id),
    mission_id VARCHAR(64) NOT NULL,
    idempotency_key VARCHAR(128) NOT NULL,
    amount BIGINT NOT NULL,
    eligible_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, mission_id)
);
CREATE INDEX IF NOT EXISTS idx_pending_rewards_eligible
    ON pending_rewards(user_id, eligible_at);
`

var migration005Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    session_token VARCHAR(64) NOT NULL,
    authenticated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL,
    last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_user_id ON admin_sessions(user_id);

CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    attempt_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    success BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_admin_login_attempts_user_id
    ON admin_login_attempts(user_id, attempt_time);
`
