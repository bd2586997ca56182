package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "kfet/internal/adapters/email"
	web "kfet/internal/adapters/http"
	"kfet/internal/adapters/storage"
	auditStorePkg "kfet/internal/adapters/storage/audit"
	blobStorePkg "kfet/internal/adapters/storage/blob"
	"kfet/internal/application/state"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Blob persistence: SQLite by default, plain JSON file when
	// KFET_STORAGE=file.
	var blobStore blobStorePkg.Store
	var auditStore auditStorePkg.Store

	if envOrDefault("KFET_STORAGE", "sqlite") == "file" {
		dataFile := envOrDefault("KFET_DATA_FILE", "kfet.json")
		blobStore = blobStorePkg.NewFileStore(dataFile)
		log.Printf("Storage: JSON file %s (no audit log in file mode)", dataFile)
	} else {
		dbPath := envOrDefault("KFET_DB", "kfet.db")
		dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		// Single-user tool, keep the pool small
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)

		if err := db.Ping(); err != nil {
			log.Fatalf("database unreachable: %v", err)
		}
		if err := storage.InitDB(db); err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		log.Println("Database initialized successfully!")

		timedDB := storage.NewTimedDB(db)
		blobStore = blobStorePkg.NewSQLiteStore(timedDB)
		auditStore = auditStorePkg.NewSQLiteStore(timedDB)
	}

	controller := state.NewController(blobStore)
	controller.Load(context.Background())

	// Configure email sender for the week summary
	resendKey := os.Getenv("KFET_RESEND_KEY")
	summaryFrom := envOrDefault("KFET_RESEND_FROM", "Kfet <noreply@kfet.local>")
	summaryTo := os.Getenv("KFET_SUMMARY_TO")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, summaryFrom), summaryFrom, summaryTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), summaryFrom, summaryTo)
		log.Println("Email sender configured (noop, set KFET_RESEND_KEY for real delivery)")
	}

	// Optional password gate: empty hash leaves every route open
	web.SetPasswordHash(os.Getenv("KFET_PASSWORD_HASH"))
	if os.Getenv("KFET_PASSWORD_HASH") == "" {
		log.Println("No KFET_PASSWORD_HASH set, running without a password gate")
	}

	mux := web.NewMux("static", &web.Stores{
		State:      controller,
		AuditStore: auditStore,
	})

	addr := envOrDefault("KFET_ADDR", ":8080")
	log.Printf("Kfet %s starting on %s (env=%s)", version, addr, envOrDefault("KFET_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
