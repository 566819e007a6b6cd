package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/catchcard/backend/api"
	"github.com/catchcard/backend/config"
	"github.com/catchcard/backend/internal/common"
	"github.com/catchcard/backend/internal/domain"
	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/migration"
	"github.com/catchcard/backend/pkg/logger"
	"github.com/catchcard/backend/pkg/xcontext"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type srv struct {
	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	cardRepo          repository.CardRepository
	userRepo          repository.UserRepository
	groupActivityRepo repository.GroupActivityRepository
	settingRepo       repository.SettingRepository

	dropDomain   domain.DropDomain
	cardDomain   domain.CardDomain
	shopDomain   domain.ShopDomain
	ledgerDomain domain.LedgerDomain
	userDomain   domain.UserDomain

	accessVerifier *common.AccessVerifier

	mux *http.ServeMux
}

func (s *srv) run() error {
	if err := s.load(); err != nil {
		return err
	}

	s.logger.Infof("Starting server at %s", s.configs.ApiServer.Address())
	return http.ListenAndServe(s.configs.ApiServer.Address(), s.mux)
}

func (s *srv) migrate() error {
	s.loadConfig()
	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	return migration.AutoMigrate(s.baseContext(context.Background()))
}

func (s *srv) load() error {
	s.loadConfig()
	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()
	s.loadRouter()
	return nil
}

func (s *srv) loadConfig() {
	s.configs = config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "3306"),
			Database:   getEnv("DB_NAME", "catchcard"),
			User:       getEnv("DB_USER", "root"),
			Password:   getEnv("DB_PASSWORD", ""),
			SQLitePath: getEnv("SQLITE_PATH", "catchcard.db"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", "localhost"),
			Port: getEnv("PORT", "8080"),
		},
		Game: config.GameConfigs{
			DropThreshold: getEnvInt("DROP_THRESHOLD", 10),
			DropDebounce:  getEnvDuration("DROP_DEBOUNCE", 2*time.Second),
			ClaimReward:   uint64(getEnvInt("CLAIM_REWARD", 20)),
			DailyReward:   uint64(getEnvInt("DAILY_REWARD", 50)),
			DailyCooldown: getEnvDuration("DAILY_COOLDOWN", 24*time.Hour),
			Moderators:    splitList(getEnv("MODERATORS", "")),
			Tiers:         loadTierCatalog(getEnv("TIER_CATALOG", "")),
		},
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() error {
	var err error
	switch s.configs.Database.Driver {
	case "mysql":
		s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	case "sqlite":
		s.db, err = gorm.Open(sqlite.Open(s.configs.Database.SQLitePath), &gorm.Config{})
	default:
		return fmt.Errorf("unknown database driver %s", s.configs.Database.Driver)
	}

	return err
}

func (s *srv) loadRepos() {
	s.cardRepo = repository.NewCardRepository()
	s.userRepo = repository.NewUserRepository()
	s.groupActivityRepo = repository.NewGroupActivityRepository()
	s.settingRepo = repository.NewSettingRepository()
}

func (s *srv) loadDomains() {
	s.accessVerifier = common.NewAccessVerifier(s.userRepo)
	s.dropDomain = domain.NewDropDomain(s.groupActivityRepo, s.cardRepo, s.settingRepo)
	s.cardDomain = domain.NewCardDomain(s.cardRepo, s.userRepo)
	s.shopDomain = domain.NewShopDomain(s.cardRepo, s.userRepo)
	s.ledgerDomain = domain.NewLedgerDomain(s.userRepo)
	s.userDomain = domain.NewUserDomain(s.userRepo)
}

func (s *srv) loadRouter() {
	s.mux = http.NewServeMux()
	base := func(r *http.Request) context.Context {
		ctx := s.baseContext(r.Context())
		// The chat transport adapter authenticates accounts; it forwards the
		// account id of the sender with every request.
		return xcontext.WithRequestUserID(ctx, r.Header.Get("X-Account-Id"))
	}

	user := []api.Middleware{s.verifyUser}
	moderator := []api.Middleware{s.verifyModerator}

	register(s.mux, base, &api.Endpoint[model.RegisterActivityRequest, model.RegisterActivityResponse]{
		Method: http.MethodPost, Path: "/activity", Handle: s.dropDomain.RegisterActivity,
	})
	register(s.mux, base, &api.Endpoint[model.TryDropRequest, model.TryDropResponse]{
		Method: http.MethodPost, Path: "/drops", Handle: s.dropDomain.TryDrop,
	})
	register(s.mux, base, &api.Endpoint[model.ClaimCardRequest, model.ClaimCardResponse]{
		Method: http.MethodPost, Path: "/cards/claim", Before: user, Handle: s.cardDomain.Claim,
	})
	register(s.mux, base, &api.Endpoint[model.CreateCardRequest, model.CreateCardResponse]{
		Method: http.MethodPost, Path: "/cards", Before: moderator, Handle: s.cardDomain.CreateCard,
	})
	register(s.mux, base, &api.Endpoint[model.GetCardRequest, model.GetCardResponse]{
		Method: http.MethodPost, Path: "/cards/get", Before: user, Handle: s.cardDomain.GetCard,
	})
	register(s.mux, base, &api.Endpoint[model.GetMyCardsRequest, model.GetMyCardsResponse]{
		Method: http.MethodPost, Path: "/cards/mine", Before: user, Handle: s.cardDomain.GetMyCards,
	})
	register(s.mux, base, &api.Endpoint[model.SearchCardsRequest, model.SearchCardsResponse]{
		Method: http.MethodPost, Path: "/cards/search", Before: user, Handle: s.cardDomain.SearchCards,
	})
	register(s.mux, base, &api.Endpoint[model.TransferCardRequest, model.TransferCardResponse]{
		Method: http.MethodPost, Path: "/cards/transfer", Before: user, Handle: s.cardDomain.Transfer,
	})
	register(s.mux, base, &api.Endpoint[model.ListShopRequest, model.ListShopResponse]{
		Method: http.MethodPost, Path: "/shop", Before: user, Handle: s.shopDomain.ListShop,
	})
	register(s.mux, base, &api.Endpoint[model.BuyCardRequest, model.BuyCardResponse]{
		Method: http.MethodPost, Path: "/shop/buy", Before: user, Handle: s.shopDomain.BuyCard,
	})
	register(s.mux, base, &api.Endpoint[model.GetBalanceRequest, model.GetBalanceResponse]{
		Method: http.MethodPost, Path: "/balance", Before: user, Handle: s.ledgerDomain.GetBalance,
	})
	register(s.mux, base, &api.Endpoint[model.ClaimDailyRequest, model.ClaimDailyResponse]{
		Method: http.MethodPost, Path: "/daily", Before: user, Handle: s.ledgerDomain.ClaimDaily,
	})
	register(s.mux, base, &api.Endpoint[model.GetLeaderboardRequest, model.GetLeaderboardResponse]{
		Method: http.MethodPost, Path: "/leaderboard", Before: user, Handle: s.ledgerDomain.GetLeaderboard,
	})
	register(s.mux, base, &api.Endpoint[model.GetDropThresholdRequest, model.GetDropThresholdResponse]{
		Method: http.MethodPost, Path: "/admin/drop-threshold/get", Before: moderator, Handle: s.dropDomain.GetDropThreshold,
	})
	register(s.mux, base, &api.Endpoint[model.SetDropThresholdRequest, model.SetDropThresholdResponse]{
		Method: http.MethodPost, Path: "/admin/drop-threshold/set", Before: moderator, Handle: s.dropDomain.SetDropThreshold,
	})
	register(s.mux, base, &api.Endpoint[model.BanUserRequest, model.BanUserResponse]{
		Method: http.MethodPost, Path: "/admin/ban", Before: moderator, Handle: s.userDomain.BanUser,
	})
	register(s.mux, base, &api.Endpoint[model.UnbanUserRequest, model.UnbanUserResponse]{
		Method: http.MethodPost, Path: "/admin/unban", Before: moderator, Handle: s.userDomain.UnbanUser,
	})
}

func register[Request, Response any](
	mux *http.ServeMux,
	base func(r *http.Request) context.Context,
	e *api.Endpoint[Request, Response],
) {
	e.Register(mux, base)
}

func (s *srv) baseContext(ctx context.Context) context.Context {
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	return ctx
}

func (s *srv) verifyUser(ctx context.Context) (context.Context, error) {
	return ctx, s.accessVerifier.VerifyUser(ctx)
}

func (s *srv) verifyModerator(ctx context.Context) (context.Context, error) {
	return ctx, s.accessVerifier.VerifyModerator(ctx)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

// loadTierCatalog decodes the tier catalog from a toml file, falling back to
// the built-in catalog.
func loadTierCatalog(path string) []config.TierConfigs {
	if path == "" {
		return config.DefaultTiers()
	}

	var catalog struct {
		Tiers []config.TierConfigs `toml:"tiers"`
	}

	if _, err := toml.DecodeFile(path, &catalog); err != nil {
		panic(fmt.Sprintf("cannot decode tier catalog %s: %v", path, err))
	}

	if len(catalog.Tiers) == 0 {
		panic(fmt.Sprintf("tier catalog %s has no tiers", path))
	}

	return catalog.Tiers
}
