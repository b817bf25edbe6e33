package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema создаёт все таблицы приложения.
// Можно вызывать повторно: используется IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    discord_username TEXT,
    email TEXT NOT NULL,
    avatar_url TEXT,
    role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('ADMIN', 'USER')),
    password_hash TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS tournaments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    start_date_time TIMESTAMPTZ NOT NULL,
    end_date_time TIMESTAMPTZ NOT NULL,
    prize_pool BIGINT NOT NULL DEFAULT 0 CHECK (prize_pool >= 0),
    max_team_count INTEGER CHECK (max_team_count > 0),
    registered_teams_count INTEGER NOT NULL DEFAULT 0,
    image TEXT,
    streaming_url TEXT,
    is_registration_open BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT tournaments_dates_check CHECK (end_date_time > start_date_time)
);

CREATE INDEX IF NOT EXISTS idx_tournaments_end_date_time ON tournaments(end_date_time);

CREATE TABLE IF NOT EXISTS teams (
    id TEXT PRIMARY KEY,
    team_name TEXT NOT NULL,
    captain_id TEXT NOT NULL,
    tournament_id TEXT NOT NULL,
    player_ids TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT teams_tournament_id_fkey FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_teams_tournament_id ON teams(tournament_id);
CREATE INDEX IF NOT EXISTS idx_teams_player_ids ON teams USING GIN (player_ids);

CREATE TABLE IF NOT EXISTS registrations (
    id TEXT PRIMARY KEY,
    team_id TEXT NOT NULL,
    tournament_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT registrations_team_id_fkey FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE,
    CONSTRAINT registrations_tournament_id_fkey FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE,
    CONSTRAINT registrations_team_id_tournament_id_key UNIQUE (team_id, tournament_id)
);

-- team_id / tournament_id are intentionally not foreign keys: rows may outlive their team or tournament.
CREATE TABLE IF NOT EXISTS leaderboard (
    id TEXT PRIMARY KEY,
    team_id TEXT NOT NULL,
    tournament_id TEXT NOT NULL,
    team_name TEXT NOT NULL,
    points INTEGER NOT NULL CHECK (points >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_leaderboard_ranking ON leaderboard(tournament_id, points DESC, created_at ASC);

CREATE TABLE IF NOT EXISTS sponsors (
    id TEXT PRIMARY KEY,
    company_name TEXT NOT NULL,
    description TEXT NOT NULL,
    logo TEXT NOT NULL,
    website TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sponsor_inquiries (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    company_name TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
