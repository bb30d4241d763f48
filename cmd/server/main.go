package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/config"
	"github.com/iliyamo/academic-records/internal/database"
	"github.com/iliyamo/academic-records/internal/handler"
	"github.com/iliyamo/academic-records/internal/queue"
	"github.com/iliyamo/academic-records/internal/repository"
	"github.com/iliyamo/academic-records/internal/router"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables rate limiting and response caching

	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	grades := repository.NewGradeRepo(db)

	auth := handler.NewAuthHandler(cfg, users)
	admin := handler.NewAdminHandler(cfg, users)
	faculty := handler.NewFacultyHandler(courses, enrollments, grades)
	student := handler.NewStudentHandler(courses, enrollments)

	// The audit consumer runs for the life of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, cfg, rdb, auth, admin, faculty, student)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
