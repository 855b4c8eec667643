// Command generate_demo creates a demo database with sample readers and
// public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/safhaapp/safha/internal/database"
	"github.com/safhaapp/safha/internal/database/books"
	"github.com/safhaapp/safha/internal/database/counters"
	"github.com/safhaapp/safha/internal/database/follows"
	"github.com/safhaapp/safha/internal/database/library"
	"github.com/safhaapp/safha/internal/database/quotes"
	"github.com/safhaapp/safha/internal/database/reviews"
	"github.com/safhaapp/safha/internal/database/users"
	"github.com/safhaapp/safha/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Start fresh each run.
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	counterService := counters.NewService()
	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	libraryRepo := library.NewRepository(db.DB, counterService)
	followRepo := follows.NewRepository(db.DB, counterService)
	quoteRepo := quotes.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)

	demoUsers := seedUsers(userRepo)
	demoBooks := seedBooks(bookRepo)

	seedLibraries(libraryRepo, demoUsers, demoBooks)
	seedFollows(followRepo, demoUsers)
	seedQuotesAndReviews(quoteRepo, reviewRepo, demoUsers, demoBooks)

	log.Println("Demo database generated successfully!")
}

func seedUsers(repo *users.Repository) []*entities.User {
	specs := []entities.User{
		{Username: "amina_reads", Email: "amina@example.com", FirstName: "Amina", LastName: "Hassan", Bio: "Slowly working through the classics.", TargetBookCount: 24},
		{Username: "bookworm_ben", Email: "ben@example.com", FirstName: "Ben", LastName: "Okafor", Bio: "Science fiction above all.", TargetBookCount: 52},
		{Username: "clara_pages", Email: "clara@example.com", FirstName: "Clara", LastName: "Nowak", TargetBookCount: 12},
	}

	var created []*entities.User
	for i := range specs {
		user := specs[i]
		if err := repo.CreateUser(&user); err != nil {
			log.Fatalf("Failed to create user %s: %v", user.Username, err)
		}
		log.Printf("Created user: %s", user.Username)
		created = append(created, &user)
	}
	return created
}

func seedBooks(repo *books.Repository) []*entities.Book {
	pages := func(n int) *int { return &n }
	specs := []entities.Book{
		{Title: "Pride and Prejudice", Author: "Jane Austen", PublicationYear: 1813, PageCount: pages(432), Genre: "classic"},
		{Title: "Frankenstein", Author: "Mary Shelley", PublicationYear: 1818, PageCount: pages(280), Genre: "gothic"},
		{Title: "The Time Machine", Author: "H. G. Wells", PublicationYear: 1895, PageCount: pages(118), Genre: "science fiction"},
		{Title: "Meditations", Author: "Marcus Aurelius", PublicationYear: 180, PageCount: pages(254), Genre: "philosophy"},
		{Title: "Dracula", Author: "Bram Stoker", PublicationYear: 1897, PageCount: pages(418), Genre: "gothic"},
	}

	var created []*entities.Book
	for i := range specs {
		book := specs[i]
		if err := repo.CreateBook(&book, 0); err != nil {
			log.Fatalf("Failed to create book %s: %v", book.Title, err)
		}
		log.Printf("Created book: %s by %s", book.Title, book.Author)
		created = append(created, &book)
	}
	return created
}

func seedLibraries(repo *library.Repository, demoUsers []*entities.User, demoBooks []*entities.Book) {
	set := func(user *entities.User, book *entities.Book, status entities.ReadingStatus) {
		if _, err := repo.SetStatus(user.ID, book.ID, status); err != nil {
			log.Fatalf("Failed to set status for %s on %s: %v", user.Username, book.Title, err)
		}
	}

	set(demoUsers[0], demoBooks[0], entities.StatusRead)
	set(demoUsers[0], demoBooks[3], entities.StatusCurrentlyReading)
	set(demoUsers[0], demoBooks[4], entities.StatusWantToRead)

	set(demoUsers[1], demoBooks[2], entities.StatusRead)
	set(demoUsers[1], demoBooks[1], entities.StatusCurrentlyReading)

	set(demoUsers[2], demoBooks[0], entities.StatusWantToRead)

	if _, err := repo.UpdateProgress(demoUsers[0].ID, demoBooks[3].ID, 120, "Book II is the strongest so far."); err != nil {
		log.Fatalf("Failed to update progress: %v", err)
	}
}

func seedFollows(repo *follows.Repository, demoUsers []*entities.User) {
	pairs := [][2]int{{0, 1}, {0, 2}, {1, 0}, {2, 0}}
	for _, pair := range pairs {
		follower, target := demoUsers[pair[0]], demoUsers[pair[1]]
		if _, err := repo.Follow(follower.ID, target.ID); err != nil {
			log.Fatalf("Failed to follow %s -> %s: %v", follower.Username, target.Username, err)
		}
	}
}

func seedQuotesAndReviews(quoteRepo *quotes.Repository, reviewRepo *reviews.Repository, demoUsers []*entities.User, demoBooks []*entities.Book) {
	quote := &entities.Quote{
		Content:    "It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife.",
		Author:     "Jane Austen",
		Source:     "Pride and Prejudice",
		PageNumber: 1,
		UserID:     demoUsers[0].ID,
		BookID:     demoBooks[0].ID,
	}
	if err := quoteRepo.CreateQuote(quote); err != nil {
		log.Fatalf("Failed to create quote: %v", err)
	}

	review := &entities.Review{
		Content: "The frame narrative drags a little, but the core chapters are extraordinary.",
		Rating:  4,
		Title:   "Still startling two centuries on",
		UserID:  demoUsers[1].ID,
		BookID:  demoBooks[1].ID,
	}
	if err := reviewRepo.CreateReview(review); err != nil {
		log.Fatalf("Failed to create review: %v", err)
	}
}
