package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"bookmate/internal/auth"
	"bookmate/internal/banners"
	"bookmate/internal/events"
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/database"
	"bookmate/internal/users"
	"bookmate/internal/venues"
)

// Seeder resets the database to a known demo state: an admin, five users,
// two venues and four events covering every gating combination (plain
// on-sale, hot, and queue-enabled), plus banners for the landing page.
type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting bookmate database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order and resets
// their id sequences.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"tickets",
		"seat_grades",
		"schedules",
		"banners",
		"events",
		"venues",
		"refresh_tokens",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds users, venues, events and banners, then flushes Redis so no
// queue state, seat lock or cache entry survives from a previous run.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	venueIDs, err := s.SeedVenues()
	if err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	eventIDs, err := s.SeedEvents(venueIDs)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedBanners(eventIDs); err != nil {
		return fmt.Errorf("failed to seed banners: %w", err)
	}

	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: failed to flush Redis: %v", err)
	} else {
		fmt.Println("  🗑️  Redis flushed")
	}

	return nil
}

// SeedUsers creates one admin and five regular users, all sharing the
// password "password123".
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	passwordHash, err := auth.HashPassword("password123")
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		email    string
		username string
		isAdmin  bool
	}{
		{"admin@bookmate.io", "admin", true},
		{"user1@bookmate.io", "유저하나", false},
		{"user2@bookmate.io", "유저둘", false},
		{"user3@bookmate.io", "유저셋", false},
		{"user4@bookmate.io", "유저넷", false},
		{"user5@bookmate.io", "유저다섯", false},
	}

	for _, data := range usersData {
		user := users.User{
			Email:        data.email,
			Username:     data.username,
			PasswordHash: passwordHash,
			Phone1:       "010",
			Phone2:       "1234",
			Phone3:       "5678",
			PostalCode:   "05540",
			Address:      "서울특별시 송파구 올림픽로 424",
			IsActive:     true,
			IsAdmin:      data.isAdmin,
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", data.email, err)
		}
		fmt.Printf("    ✅ Created user: %s (admin=%v)\n", user.Email, user.IsAdmin)
	}

	return nil
}

// SeedVenues creates two venues. The arena carries a full seat-map document;
// the hall has none, which exercises the projection fallbacks.
func (s *Seeder) SeedVenues() (map[string]int64, error) {
	fmt.Println("  🏟️  Seeding venues...")

	venuesData := []struct {
		key     string
		name    string
		address string
		seatMap string
	}{
		{
			key:     "arena",
			name:    "올림픽공원 체조경기장",
			address: "서울특별시 송파구 올림픽로 424",
			seatMap: `{"sections":[{"name":"1구역"},{"name":"2구역"},{"name":"3구역"}],"seats_per_row":20}`,
		},
		{
			key:     "hall",
			name:    "블루스퀘어 신한카드홀",
			address: "서울특별시 용산구 이태원로 294",
			seatMap: "",
		},
	}

	venueIDs := make(map[string]int64)
	for _, data := range venuesData {
		venue := venues.Venue{
			Name:    data.name,
			Address: data.address,
			SeatMap: data.seatMap,
		}
		if err := s.db.PostgreSQL.Create(&venue).Error; err != nil {
			return nil, fmt.Errorf("failed to create venue %s: %w", data.name, err)
		}
		venueIDs[data.key] = venue.ID
		fmt.Printf("    ✅ Created venue: %s (id=%d)\n", venue.Name, venue.ID)
	}

	return venueIDs, nil
}

// SeedEvents creates four events: a plain on-sale musical, two hot concerts
// that funnel through the admission queue, and a queue-enabled fan meeting.
// Each gets one or two schedules and a three-tier grade catalog whose VIP
// row "1" is priced at 100000.
func (s *Seeder) SeedEvents(venueIDs map[string]int64) (map[string]int64, error) {
	fmt.Println("  🎭 Seeding events...")

	now := time.Now().UTC()
	salesOpen := now.Add(-24 * time.Hour)
	salesEnd := now.Add(30 * 24 * time.Hour)
	arenaID := venueIDs["arena"]
	hallID := venueIDs["hall"]

	eventsData := []struct {
		key          string
		title        string
		description  string
		genre        events.Genre
		subGenre     string
		isHot        bool
		queueEnabled bool
		venueID      int64
		schedules    []time.Time
	}{
		{
			key:         "musical",
			title:       "뮤지컬 레베카",
			description: "10주년 기념 공연",
			genre:       events.GenreMusical,
			subGenre:    "오리지널",
			venueID:     hallID,
			schedules:   []time.Time{now.Add(14 * 24 * time.Hour), now.Add(15 * 24 * time.Hour)},
		},
		{
			key:         "concert",
			title:       "세븐스타즈 단독 콘서트",
			description: "월드투어 서울 공연",
			genre:       events.GenreConcert,
			isHot:       true,
			venueID:     arenaID,
			schedules:   []time.Time{now.Add(21 * 24 * time.Hour)},
		},
		{
			key:         "festival",
			title:       "서울 록 페스티벌",
			description: "이틀간의 야외 공연",
			genre:       events.GenreConcert,
			subGenre:    "페스티벌",
			isHot:       true,
			venueID:     arenaID,
			schedules:   []time.Time{now.Add(28 * 24 * time.Hour), now.Add(29 * 24 * time.Hour)},
		},
		{
			key:          "fanmeeting",
			title:        "세븐스타즈 팬미팅",
			description:  "데뷔 5주년 팬미팅",
			genre:        events.GenreEtc,
			queueEnabled: true,
			venueID:      hallID,
			schedules:    []time.Time{now.Add(35 * 24 * time.Hour)},
		},
	}

	grades := []struct {
		rowLabel string
		grade    string
		price    int64
	}{
		{"1", "VIP", 100000},
		{"2", "R", 80000},
		{"3", "S", 60000},
	}

	eventIDs := make(map[string]int64)
	for _, data := range eventsData {
		venueID := data.venueID
		event := events.Event{
			Title:         data.title,
			Description:   data.description,
			Genre:         data.genre,
			SubGenre:      data.subGenre,
			IsHot:         data.isHot,
			QueueEnabled:  data.queueEnabled,
			ReceiptMethod: events.ReceiptDelivery,
			VenueID:       &venueID,
			SalesOpenAt:   &salesOpen,
			SalesEndAt:    &salesEnd,
		}
		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return nil, fmt.Errorf("failed to create event %s: %w", data.title, err)
		}
		eventIDs[data.key] = event.ID

		running := 150
		for _, startAt := range data.schedules {
			endAt := startAt.Add(time.Duration(running) * time.Minute)
			schedule := events.EventSchedule{
				EventID:        event.ID,
				StartAt:        startAt,
				EndAt:          &endAt,
				RunningMinutes: &running,
			}
			if err := s.db.PostgreSQL.Create(&schedule).Error; err != nil {
				return nil, fmt.Errorf("failed to create schedule for %s: %w", data.title, err)
			}
		}

		for _, g := range grades {
			grade := events.SeatGrade{
				EventID:  event.ID,
				RowLabel: g.rowLabel,
				Grade:    g.grade,
				Price:    g.price,
			}
			if err := s.db.PostgreSQL.Create(&grade).Error; err != nil {
				return nil, fmt.Errorf("failed to create seat grade for %s: %w", data.title, err)
			}
		}

		fmt.Printf("    ✅ Created event: %s (id=%d, hot=%v, queue=%v)\n",
			event.Title, event.ID, event.IsHot, event.QueueEnabled)
	}

	return eventIDs, nil
}

// SeedBanners creates two live banners pointing at the hot events and one
// expired banner that the active listing must filter out.
func (s *Seeder) SeedBanners(eventIDs map[string]int64) error {
	fmt.Println("  🖼️  Seeding banners...")

	now := time.Now().UTC()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	nextMonth := now.Add(30 * 24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	concertID := eventIDs["concert"]
	festivalID := eventIDs["festival"]
	musicalID := eventIDs["musical"]

	bannersData := []banners.Banner{
		{
			Title:       "세븐스타즈 콘서트 티켓 오픈",
			ImageURL:    "https://cdn.bookmate.io/banners/sevenstars-concert.jpg",
			EventID:     &concertID,
			StartsAt:    &weekAgo,
			EndsAt:      &nextMonth,
			BannerOrder: 1,
			IsActive:    true,
		},
		{
			Title:       "서울 록 페스티벌 얼리버드",
			ImageURL:    "https://cdn.bookmate.io/banners/rock-festival.jpg",
			EventID:     &festivalID,
			StartsAt:    &weekAgo,
			EndsAt:      &nextMonth,
			BannerOrder: 2,
			IsActive:    true,
		},
		{
			Title:       "뮤지컬 레베카 프리뷰 할인",
			ImageURL:    "https://cdn.bookmate.io/banners/rebecca-preview.jpg",
			EventID:     &musicalID,
			StartsAt:    &weekAgo,
			EndsAt:      &yesterday,
			BannerOrder: 3,
			IsActive:    true,
		},
	}

	for i := range bannersData {
		if err := s.db.PostgreSQL.Create(&bannersData[i]).Error; err != nil {
			return fmt.Errorf("failed to create banner %s: %w", bannersData[i].Title, err)
		}
		fmt.Printf("    ✅ Created banner: %s\n", bannersData[i].Title)
	}

	return nil
}
