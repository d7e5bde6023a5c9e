package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// mints an HS256 token for a server running with AUTH_PROVIDER=jwt
func main() {
	userID := flag.String("uid", "", "user id (random when empty)")
	email := flag.String("email", "test@stylize.dev", "email claim")
	name := flag.String("name", "Test User", "name claim")
	showUsage := flag.Bool("usage", false, "print the user's usage from DATABASE_URL")
	flag.Parse()

	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	verifier, err := auth.NewJWTVerifier(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("Failed to create verifier: %v", err)
	}

	if *userID == "" {
		*userID = uuid.NewString()
	}

	token, err := verifier.GenerateToken(*userID, *email, *name)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\n🔑 Test JWT Token for %s:\n%s\n\n", *userID, token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)

	if *showUsage {
		printUsage(*userID)
	}
}

func printUsage(userID string) {
	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	store := usage.NewPostgresStore(dbPool, usage.DefaultMaxTransformations)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate usage schema: %v", err)
	}

	stats, err := usage.GetStats(ctx, store, userID)
	if err != nil {
		log.Fatalf("Failed to load usage: %v", err)
	}

	fmt.Printf("\n📊 Usage: %d/%d used, %d remaining (last reset %s)\n",
		stats.TransformationsUsed,
		stats.MaxTransformations,
		stats.TransformationsRemaining,
		stats.LastReset.Format("2006-01-02 15:04"),
	)
}
