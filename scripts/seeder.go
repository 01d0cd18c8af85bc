package main

import (
	"log"
	"time"

	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/utils"
)

type seedUser struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Bio         string
	IsPage      bool
}

type seedPost struct {
	Username string
	Content  string
	Age      time.Duration
}

func main() {
	config.InitConfig()
	config.InitDB()

	users := []seedUser{
		{Username: "alice", Email: "alice@memoria.app", Password: "password1", DisplayName: "Alice Tan", Bio: "Collecting small moments."},
		{Username: "bob", Email: "bob@memoria.app", Password: "password2", DisplayName: "Bob Hart", Bio: "Photos, mostly."},
		{Username: "carol", Email: "carol@memoria.app", Password: "password3", DisplayName: "Carol Wing", Bio: ""},
		{Username: "riverside-park", Email: "hello@riversidepark.org", Password: "password4", DisplayName: "Riverside Park", Bio: "Community memories of the park.", IsPage: true},
	}

	ids := make(map[string]int64, len(users))
	for _, u := range users {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.Username, err)
		}
		var id int64
		err = config.DB.QueryRow(
			`INSERT INTO users (username, email, display_name, bio, is_page, password_hash)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			u.Username, u.Email, u.DisplayName, u.Bio, u.IsPage, hashed,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.Username, err)
		}
		ids[u.Username] = id
		log.Printf("Seeded user: %s", u.Username)
	}

	follows := [][2]string{
		{"alice", "bob"}, {"alice", "riverside-park"},
		{"bob", "alice"}, {"carol", "alice"}, {"carol", "riverside-park"},
	}
	for _, f := range follows {
		if _, err := config.DB.Exec(
			`INSERT INTO follows (follower_id, following_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			ids[f[0]], ids[f[1]]); err != nil {
			log.Fatalf("Failed to seed follow %s -> %s: %v", f[0], f[1], err)
		}
	}

	posts := []seedPost{
		{Username: "alice", Content: "First snow of the year on the old bridge.", Age: 48 * time.Hour},
		{Username: "alice", Content: "Found my grandmother's recipe box today.", Age: 24 * time.Hour},
		{Username: "bob", Content: "Sunrise from the east pier.", Age: 12 * time.Hour},
		{Username: "riverside-park", Content: "The bandstand turns 100 this summer. Share your memories of it below.", Age: 6 * time.Hour},
		{Username: "carol", Content: "Back in my hometown for the weekend.", Age: time.Hour},
	}
	postIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		var id int64
		err := config.DB.QueryRow(
			`INSERT INTO posts (user_id, content, created_at) VALUES ($1, $2, $3) RETURNING id`,
			ids[p.Username], p.Content, time.Now().Add(-p.Age),
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed post for %s: %v", p.Username, err)
		}
		postIDs = append(postIDs, id)
	}

	likes := []struct {
		Username string
		Post     int
	}{
		{"bob", 0}, {"carol", 0}, {"alice", 2}, {"alice", 3}, {"bob", 3}, {"carol", 3},
	}
	for _, l := range likes {
		if _, err := config.DB.Exec(
			`INSERT INTO likes (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			ids[l.Username], postIDs[l.Post]); err != nil {
			log.Fatalf("Failed to seed like: %v", err)
		}
	}

	comments := []struct {
		Username string
		Post     int
		Content  string
	}{
		{"bob", 0, "That bridge never changes."},
		{"alice", 3, "I learned to ride a bike right next to it."},
		{"carol", 3, "My parents met at a concert there."},
	}
	for _, cm := range comments {
		if _, err := config.DB.Exec(
			`INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, $3)`,
			postIDs[cm.Post], ids[cm.Username], cm.Content); err != nil {
			log.Fatalf("Failed to seed comment: %v", err)
		}
	}

	log.Println("Seeding complete")
}
