package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE MENTORS AND GROUPS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create mentors and groups tables
-- Version: 001

CREATE TABLE IF NOT EXISTS mentors (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    username VARCHAR(50) NOT NULL UNIQUE,
    group_id UUID NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS groups (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    mentor_id UUID NOT NULL,
    join_code VARCHAR(16) NOT NULL UNIQUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_mentors_username ON mentors(username);
CREATE INDEX IF NOT EXISTS idx_groups_join_code ON groups(join_code);
CREATE INDEX IF NOT EXISTS idx_groups_mentor_id ON groups(mentor_id);
`

const migration001Down = `
DROP TABLE IF EXISTS groups;
DROP TABLE IF EXISTS mentors;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create students table
-- Version: 002
--
-- The student aggregate is stored as scalar progress counters plus JSONB
-- documents for its collections. The whole aggregate is written in one
-- UPDATE, matching the repository contract.

CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    username VARCHAR(50) NOT NULL UNIQUE,
    group_id UUID NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT '',

    total_xp INTEGER NOT NULL DEFAULT 0,
    coins INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    streak INTEGER NOT NULL DEFAULT 0,
    badges JSONB NOT NULL DEFAULT '[]'::jsonb,

    logs JSONB NOT NULL DEFAULT '[]'::jsonb,
    custom_tasks JSONB NOT NULL DEFAULT '[]'::jsonb,
    inventory JSONB NOT NULL DEFAULT '[]'::jsonb,
    rewards JSONB NOT NULL DEFAULT '[]'::jsonb,

    last_swept_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_xp CHECK (total_xp >= 0),
    CONSTRAINT valid_coins CHECK (coins >= 0),
    CONSTRAINT valid_streak CHECK (streak >= 0)
);

CREATE INDEX IF NOT EXISTS idx_students_username ON students(username);
CREATE INDEX IF NOT EXISTS idx_students_group_id ON students(group_id);
CREATE INDEX IF NOT EXISTS idx_students_total_xp ON students(total_xp DESC);

-- Composite index for group leaderboard queries
CREATE INDEX IF NOT EXISTS idx_students_group_xp ON students(group_id, total_xp DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS students;
`
