package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "xecute", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, fk := range foreignKeys {
		drop := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, fk.table, fk.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("Failed to reset %s: %w", fk.name, err)
		}
		add := fmt.Sprintf(
			`ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES %q(%q) ON DELETE CASCADE`,
			fk.table, fk.name, fk.column, fk.refTable, fk.refColumn,
		)
		if err := s.db.Exec(add).Error; err != nil {
			return fmt.Errorf("Failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

type foreignKey struct {
	table     string
	name      string
	column    string
	refTable  string
	refColumn string
}

var foreignKeys = []foreignKey{
	{table: "user_auth", name: "fk_user_auth_user_id", column: "user_id", refTable: "user", refColumn: "id"},
	{table: "character_stats", name: "fk_character_stats_user_id", column: "user_id", refTable: "user", refColumn: "id"},
	{table: "daily_intention", name: "fk_daily_intention_user_id", column: "user_id", refTable: "user", refColumn: "id"},
	{table: "focus_block", name: "fk_focus_block_daily_intention_id", column: "daily_intention_id", refTable: "daily_intention", refColumn: "id"},
	{table: "daily_result", name: "fk_daily_result_daily_intention_id", column: "daily_intention_id", refTable: "daily_intention", refColumn: "id"},
	{table: "coaching_log", name: "fk_coaching_log_user_id", column: "user_id", refTable: "user", refColumn: "id"},
}
