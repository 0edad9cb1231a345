package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/memory"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 選んだ保存先のrepository一式
type stores struct {
	users    repository.UserRepository
	products repository.ProductRepository
	lines    repository.CartLineRepository
	close    func(context.Context) error
}

func main() {
	if err := run(); err != nil {
		// loggerが作れていない可能性があるので標準エラーへ
		_, _ = os.Stderr.WriteString("fatal: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Service: "storefront", Env: cfg.GoEnv, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := server.WithSignals(context.Background())
	defer cancel()

	//DB接続
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()
	log.Info("store ready", zap.String("driver", cfg.StoreDriver))

	//usecaseに渡す部品
	idGen := usecase.UUIDGenerator{}
	clock := usecase.SystemClock{}
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)

	//Usecase生成
	productUC := usecase.NewProductUsecase(st.products, idGen, clock)
	cartUC := usecase.NewCartUsecase(st.lines, st.products, idGen, clock, cfg.TaxRate)
	registerUC := auth.NewRegisterUserUsecase(st.users, auth.NewBcryptPasswordHasher(bcrypt.DefaultCost), issuer, idGen, clock)
	loginUC := auth.NewLoginUsecase(st.users, auth.NewBcryptPasswordVerifier(), issuer, clock)

	if cfg.SeedProducts {
		n, err := productUC.SeedSampleProducts(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("seeded sample products", zap.Int("count", n))
		}
	}

	//Handler生成
	srv := server.New(cfg, log, server.Handlers{
		Auth:    handler.NewAuthHandler(registerUC, loginUC),
		Product: handler.NewProductHandler(productUC),
		Cart:    handler.NewCartHandler(cartUC),
	})

	//Server起動
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("bye")
	return nil
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, mdb, err := db.ConnectMongo(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		if err := infraRepo.EnsureMongoIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(context.Background())
			return stores{}, err
		}
		return stores{
			users:    infraRepo.NewUserMongoRepository(mdb),
			products: infraRepo.NewProductMongoRepository(mdb),
			lines:    infraRepo.NewCartMongoRepository(mdb),
			close:    client.Disconnect,
		}, nil

	case config.DriverMemory:
		return stores{
			users:    memory.NewUserStore(),
			products: memory.NewProductStore(),
			lines:    memory.NewCartStore(),
			close:    func(context.Context) error { return nil },
		}, nil

	default:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return stores{}, err
		}
		if err := db.Migrate(gormDB); err != nil {
			_ = db.Close(gormDB)
			return stores{}, err
		}
		return stores{
			users:    infraRepo.NewUserGormRepository(gormDB),
			products: infraRepo.NewProductGormRepository(gormDB),
			lines:    infraRepo.NewCartGormRepository(gormDB),
			close:    func(context.Context) error { return db.Close(gormDB) },
		}, nil
	}
}
