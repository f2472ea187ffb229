package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"contest-arena/pkg/config"
	"contest-arena/pkg/database"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
	"contest-arena/pkg/s3"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, s3Client, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, s3Client *s3.Client, log *logger.Logger) error {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	testUsers := []struct {
		email    string
		username string
		password string
		role     models.UserRole
	}{
		{"admin@test.com", "arena_admin", "Admin123!", models.RoleAdmin},
		{"alice@test.com", "alice_player", "Player123!", models.RoleUser},
		{"bob@test.com", "bob_player", "Player123!", models.RoleUser},
		{"charlie@test.com", "charlie_player", "Player123!", models.RoleUser},
		{"diana@test.com", "diana_player", "Player123!", models.RoleUser},
	}

	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			Role:     userData.role,
			IsActive: true,
		}

		if err := user.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate user ID: %w", err)
		}

		var existingUser models.User
		result := db.Where("email = ? OR username = ?", user.Email, user.Username).First(&existingUser)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", user.Username)
			continue
		}

		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", user.Username, err)
			continue
		}

		log.Info("Created user: %s (%s)", user.Username, user.Email)

		if user.Role == models.RoleAdmin {
			continue
		}

		wallet := &models.Wallet{
			UserID:  user.ID,
			Balance: 1000,
		}
		if err := wallet.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate wallet ID: %w", err)
		}
		if err := db.Create(wallet).Error; err != nil {
			log.Error("Failed to create wallet for user %s: %v", user.Username, err)
		}
	}

	testGames := []struct {
		title       string
		category    string
		description string
		releaseYear int
		rating      float64
	}{
		{"Blitz Chess", "strategy", "Five minute chess with online matchmaking", 2019, 4.6},
		{"Rocket Rally", "racing", "Physics based rocket car racing", 2021, 4.2},
		{"Tower Clash", "strategy", "Real time tower defense duels", 2020, 3.9},
		{"Pixel Royale", "shooter", "Top-down 32 player battle royale", 2022, 4.4},
	}

	gameIDs := make([]string, 0, len(testGames))

	for i, gameData := range testGames {
		var existingGame models.Game
		result := db.Where("title = ?", gameData.title).First(&existingGame)
		if result.Error == nil {
			log.Info("Game %s already exists, skipping", gameData.title)
			gameIDs = append(gameIDs, existingGame.ID)
			continue
		}

		game := &models.Game{
			Title:         gameData.title,
			Category:      gameData.category,
			Description:   gameData.description,
			ReleaseYear:   gameData.releaseYear,
			AverageRating: gameData.rating,
		}
		if err := game.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate game ID: %w", err)
		}

		if thumbnailURL, err := uploadGameThumbnail(s3Client, httpClient, game.ID, gameData.title, i, log); err != nil {
			log.Error("Failed to upload thumbnail for %s: %v", gameData.title, err)
		} else {
			game.ThumbnailURL = thumbnailURL
		}

		if err := db.Create(game).Error; err != nil {
			log.Error("Failed to create game %s: %v", gameData.title, err)
			continue
		}

		log.Info("Created game: %s", game.Title)
		gameIDs = append(gameIDs, game.ID)
	}

	for i, gameID := range gameIDs {
		title := fmt.Sprintf("%s Weekend Cup", testGames[i].title)

		var existingContest models.Contest
		result := db.Where("game_id = ? AND title = ?", gameID, title).First(&existingContest)
		if result.Error == nil {
			log.Info("Contest %s already exists, skipping", title)
			continue
		}

		start := time.Now().UTC().Add(time.Duration(24*(i+1)) * time.Hour).Truncate(time.Hour)
		contest := &models.Contest{
			GameID:      gameID,
			Title:       title,
			Description: fmt.Sprintf("Seeded contest for %s", testGames[i].title),
			StartTime:   start,
			EndTime:     start.Add(4 * time.Hour),
			EntryFee:    10,
			PrizePool:   100,
			Status:      models.ContestStatusActive,
		}
		if err := contest.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate contest ID: %w", err)
		}

		if err := db.Create(contest).Error; err != nil {
			log.Error("Failed to create contest %s: %v", title, err)
			continue
		}

		log.Info("Created contest: %s", contest.Title)
	}

	return nil
}

func uploadGameThumbnail(s3Client *s3.Client, httpClient *http.Client, gameID, title string, index int, log *logger.Logger) (string, error) {
	imageURL := fmt.Sprintf("https://picsum.photos/seed/%s/400/300", url.PathEscape(title))

	log.Info("Fetching thumbnail from %s", imageURL)
	resp, err := httpClient.Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("picsum API returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	if len(imageData) == 0 {
		return "", fmt.Errorf("received empty image data")
	}

	fileKey := fmt.Sprintf("games/%s/seed_%d.jpg", gameID, index)
	uploadedURL, err := s3Client.UploadFile(fileKey, bytes.NewReader(imageData), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload thumbnail to S3: %w", err)
	}

	return uploadedURL, nil
}
