package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for every table the service owns. Statements are
// idempotent so EnsureSchema can run on every startup. There are no
// foreign-key constraints between fees and students on purpose: dangling
// references are tolerated and readers handle them defensively.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id            CHAR(36)     NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_admins_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS students (
		id             CHAR(36)      NOT NULL,
		name           VARCHAR(255)  NOT NULL,
		roll_number    VARCHAR(64)   NOT NULL,
		class          VARCHAR(64)   NOT NULL,
		section        VARCHAR(64)   NULL,
		phone          VARCHAR(32)   NOT NULL,
		email          VARCHAR(255)  NULL,
		address        VARCHAR(512)  NULL,
		parent_name    VARCHAR(255)  NOT NULL,
		parent_phone   VARCHAR(32)   NOT NULL,
		admission_date DATETIME      NOT NULL,
		total_fee      DOUBLE        NOT NULL,
		fee_type       VARCHAR(64)   NOT NULL DEFAULT 'Annual',
		is_active      TINYINT(1)    NOT NULL DEFAULT 1,
		added_by       CHAR(36)      NOT NULL,
		created_at     DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_students_roll_number (roll_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS fees (
		id             CHAR(36)     NOT NULL,
		student_id     CHAR(36)     NOT NULL,
		fee_type       VARCHAR(64)  NOT NULL,
		amount         DOUBLE       NOT NULL,
		due_date       DATETIME     NOT NULL,
		status         ENUM('pending','paid','overdue') NOT NULL DEFAULT 'pending',
		paid_date      DATETIME     NULL,
		paid_amount    DOUBLE       NULL,
		payment_method VARCHAR(64)  NULL,
		added_by       CHAR(36)     NOT NULL,
		updated_by     CHAR(36)     NULL,
		created_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY ix_fees_student (student_id),
		KEY ix_fees_status_due (status, due_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the service tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
