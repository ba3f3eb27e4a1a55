// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/bot"
	"airdrop-bot/internal/bot/keyboards"
	"airdrop-bot/internal/config"
	"airdrop-bot/internal/db/postgres"
	"airdrop-bot/internal/features/admin"
	"airdrop-bot/internal/features/checkin"
	"airdrop-bot/internal/features/ledger"
	"airdrop-bot/internal/features/missions"
	"airdrop-bot/internal/features/rewards"
	"airdrop-bot/internal/features/users"
	"airdrop-bot/internal/features/wallet"
	"airdrop-bot/internal/jobs"
	"airdrop-bot/internal/recipeai"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config, campaign *config.Campaign) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	userRepo := users.NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)
	missionRepo := missions.NewRepository(pool)
	rewardRepo := rewards.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 4. Сервисы ===
	userService := users.NewService(userRepo)
	ledgerService := ledger.NewService(ledgerRepo)
	rewardService := rewards.NewService(rewardRepo, ledgerService)
	missionService := missions.NewService(missionRepo, userService, ledgerService, rewardService)
	walletService := wallet.NewService(userRepo, ledgerService, campaign)
	checkinService := checkin.NewService(ledgerService, campaign)
	adminService := admin.NewService(adminRepo, cfg)

	recipeAI := recipeai.NewClient(cfg.RecipeAIBaseURL, cfg.RecipeAITimeout)

	// === 5. Обработчики ===
	menu := keyboards.MainMenu(campaign)
	walletHandler := wallet.NewHandler(walletService, userService, botAPI, menu)
	missionHandler := missions.NewHandler(missionService, userService, campaign, botAPI, menu)
	checkinHandler := checkin.NewHandler(checkinService, userService, botAPI, menu)
	adminHandler := admin.NewHandler(adminService, userRepo, ledgerService, missionService, rewardService, checkinService, botAPI)

	// === 6. Собираем бота ===
	b := bot.New(
		botAPI, cfg, campaign,
		userService, ledgerService, rewardService,
		walletHandler, missionHandler, checkinHandler, adminHandler,
		recipeAI,
	)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, campaign, userService, checkinService, botAPI)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Ledger},
		{3, migration003Missions},
		{4, migration004Rewards},
		{5, migration005Admin},
	}

	for _, m := range migrations {
		if err := postgres.ApplyMigration(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}
