package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sdko-org/callview-api/internal/config"
	"github.com/sdko-org/callview-api/internal/database"
	"github.com/sdko-org/callview-api/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	statuses     = []string{"active", "inactive", "blocked", "pending", "completed"}
	qualities    = []string{"hot", "warm", "cold", "dead"}
	callStatuses = []string{"completed", "missed", "busy", "failed", "no_answer"}
	directions   = []string{"inbound", "outbound"}
)

func main() {
	workspaces := flag.Int("workspaces", 2, "number of workspaces to create")
	customers := flag.Int("customers", 1000, "customers per workspace")
	calls := flag.Int("calls", 5, "calls per customer")
	flag.Parse()

	cfg := config.Load()
	logger := logrus.New()

	db, err := database.NewPostgresDB(logger, database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		DBName:   cfg.PostgresDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	})
	if err != nil {
		logger.WithError(err).Fatal("Database initialization failed")
	}

	log := logger.WithField("component", "seeder")
	start := time.Now()

	for w := 0; w < *workspaces; w++ {
		workspace := models.Workspace{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("Workspace %d", w+1),
			CreatedAt: time.Now(),
		}
		if err := db.Create(&workspace).Error; err != nil {
			log.WithError(err).Fatal("Workspace insert failed")
		}

		employee := models.Employee{
			ID:          uuid.New(),
			WorkspaceID: workspace.ID,
			Name:        fmt.Sprintf("Agent %d", w+1),
			Email:       fmt.Sprintf("agent%d@example.com", w+1),
			Role:        "employee",
		}
		if err := db.Create(&employee).Error; err != nil {
			log.WithError(err).Fatal("Employee insert failed")
		}

		batch := make([]models.Customer, 0, 500)
		callBatch := make([]models.Call, 0, 500)
		for i := 0; i < *customers; i++ {
			createdAt := time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour)
			customer := models.Customer{
				ID:          uuid.New(),
				WorkspaceID: workspace.ID,
				Name:        fmt.Sprintf("Customer %d-%d", w+1, i+1),
				Phone:       fmt.Sprintf("+1555%07d", rand.Intn(10000000)),
				Status:      statuses[rand.Intn(len(statuses))],
				Quality:     qualities[rand.Intn(len(qualities))],
				CallStatus:  "pending",
				EmployeeID:  &employee.ID,
				CreatedAt:   createdAt,
				UpdatedAt:   createdAt,
			}
			batch = append(batch, customer)

			for c := 0; c < *calls; c++ {
				callBatch = append(callBatch, models.Call{
					ID:          uuid.New(),
					WorkspaceID: workspace.ID,
					CustomerID:  customer.ID,
					Direction:   directions[rand.Intn(len(directions))],
					Status:      callStatuses[rand.Intn(len(callStatuses))],
					Duration:    float64(rand.Intn(600)),
					CreatedAt:   createdAt.Add(time.Duration(c) * time.Hour),
				})
			}

			if len(batch) >= 500 {
				if err := db.CreateInBatches(&batch, 500).Error; err != nil {
					log.WithError(err).Fatal("Customer batch insert failed")
				}
				if err := db.CreateInBatches(&callBatch, 500).Error; err != nil {
					log.WithError(err).Fatal("Call batch insert failed")
				}
				batch = batch[:0]
				callBatch = callBatch[:0]
			}
		}
		if len(batch) > 0 {
			if err := db.CreateInBatches(&batch, 500).Error; err != nil {
				log.WithError(err).Fatal("Customer batch insert failed")
			}
		}
		if len(callBatch) > 0 {
			if err := db.CreateInBatches(&callBatch, 500).Error; err != nil {
				log.WithError(err).Fatal("Call batch insert failed")
			}
		}

		log.WithFields(logrus.Fields{
			"workspace": workspace.ID,
			"customers": *customers,
		}).Info("Seeded workspace")
	}

	log.WithField("duration", time.Since(start)).Info("Seeding complete")
}
