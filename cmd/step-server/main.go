package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/registry"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/stepdef"
	"github.com/PhucNguyen204/BDD_V1/internal/features"
	srv "github.com/PhucNguyen204/BDD_V1/internal/server"
	"github.com/PhucNguyen204/BDD_V1/pkg/suite"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	addr := getenv("STEPS_ADDR", ":8080")
	dsn := os.Getenv("STEPS_DB_DSN")
	suitePath := os.Getenv("STEPS_SUITE")
	featuresPath := os.Getenv("STEPS_FEATURES_PATH")

	cfg := ir.DefaultEngineConfig()
	dialect := ir.DialectCucumber
	if suitePath != "" {
		sc, err := suite.LoadFile(suitePath)
		if err != nil {
			log.Fatalf("load suite %s: %v", suitePath, err)
		}
		profile, err := sc.Profile(getenv("STEPS_PROFILE", ""))
		if err != nil {
			log.Fatalf("suite profile: %v", err)
		}
		cfg = cfg.WithPrefilter(profile.PrefilterEnabled())
		if dialect, err = profile.DialectValue(); err != nil {
			log.Fatalf("suite dialect: %v", err)
		}
		if dsn == "" {
			dsn = profile.UsageDSN
		}
		if featuresPath == "" && len(profile.Paths) > 0 {
			featuresPath = profile.Paths[0]
		}
	}

	var db *sql.DB
	if dsn != "" {
		var err error
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		if err := db.Ping(); err != nil {
			log.Fatalf("ping db: %v", err)
		}
	} else {
		log.Printf("usage store disabled (no STEPS_DB_DSN)")
	}

	b := registry.NewBuilderWithConfig(cfg)
	if err := registerDemoSteps(b, dialect); err != nil {
		log.Fatalf("register steps: %v", err)
	}
	engine, err := b.Build()
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	log.Printf("step engine ready: %d definitions, %s",
		engine.Len(), engine.PrefilterStats().PerformanceSummary())

	server := srv.NewAppServer(db, engine)
	if db != nil {
		if err := server.InitSchema(); err != nil {
			log.Fatalf("init schema: %v", err)
		}
	}

	if featuresPath != "" {
		if steps, err := features.LoadDirRecursive(featuresPath); err != nil {
			log.Printf("failed to load features from %s: %v", featuresPath, err)
		} else {
			log.Printf("loaded %d step lines from %s", len(steps), featuresPath)
		}
	}

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	log.Printf("step server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

// registerDemoSteps đăng ký bộ step mẫu để server có gì đó match được
// ngay khi chưa nối registry thật.
func registerDemoSteps(b *registry.Builder, dialect ir.Dialect) error {
	store := func(key string) stepdef.Handler {
		return stepdef.Handler{
			NArgs: 1,
			Fn: func(ctx *stepdef.Context, args []ir.Arg) (any, error) {
				ctx.Set(key, args[0].Value)
				return args[0].Value, nil
			},
		}
	}

	type demo struct {
		pattern string
		dialect ir.Dialect
		spec    any
	}
	steps := []demo{
		{"I have {int} cucumbers", ir.DialectCucumber, store("count")},
		{"I eat {int} cucumber(s)", ir.DialectCucumber, store("eaten")},
		{"the basket is labeled {string}", ir.DialectCucumber, store("label")},
		{`^the suite dialect is "([^"]+)"$`, ir.DialectRegexp, store("dialect")},
	}
	for _, d := range steps {
		if _, err := b.Register(d.pattern, d.dialect, d.spec); err != nil {
			return err
		}
	}
	// một step theo dialect mặc định của profile
	if dialect == ir.DialectRegexp {
		_, err := b.Register(`^profiles prefer regular expressions$`, dialect, store("profile_step"))
		return err
	}
	_, err := b.Register("profiles prefer cucumber expressions", dialect, store("profile_step"))
	return err
}
