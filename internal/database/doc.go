// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, partial unique indexes
//	├── users/           # User lookup and profile updates
//	├── books/           # Book catalog CRUD
//	├── library/         # Reading-status lifecycle (the status engine)
//	├── follows/         # Follow graph maintenance
//	├── counters/        # Denormalized counter adjustment and repair
//	├── quotes/          # Quote CRUD
//	└── reviews/         # Review CRUD
//
// # Using Sub-packages
//
// Each sub-package provides a Repository (or Service) type with
// domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./safha.db")
//
//	// Create domain-specific repositories
//	libraryRepo := library.NewRepository(db.DB, counters.NewService())
//	followsRepo := follows.NewRepository(db.DB, counters.NewService())
//
//	// Use repositories
//	status, err := libraryRepo.SetStatus(userID, bookID, entities.StatusRead)
//
// # Soft Deletes
//
// Every row carries an IsActive flag. Deletion flips the flag off; queries
// filter on it at the repository layer. gorm.DeletedAt is deliberately not
// used because the status engine must be able to read inactive rows to
// reactivate them.
package database
