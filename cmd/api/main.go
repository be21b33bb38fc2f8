// Package main (in api-subfolder) provides launch of the whole application except worker
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"

	"github.com/pixelforge/stampd/internal/kafka"
	"github.com/pixelforge/stampd/internal/metrics"
	"github.com/pixelforge/stampd/internal/mwlogger"
	"github.com/pixelforge/stampd/internal/pdfrender"
	"github.com/pixelforge/stampd/internal/repository"
	"github.com/pixelforge/stampd/internal/service"
	"github.com/pixelforge/stampd/internal/storage"
	"github.com/pixelforge/stampd/internal/transport"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	logLevel := appConfig.GetString("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if err := zlog.SetLevel(logLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// подключитсья к базе
	dbConn := repository.ConnectWithRetries(appConfig, 5, 10*time.Second)
	// накатываем миграцию
	repository.MigrateWithRetries(dbConn.Master, "./migrations", 10, 15*time.Second)

	// подключиться к хранилищу
	strg := storage.NewFileStorage(appConfig, 10*time.Second)
	// создаем экземпляр репо
	repo := repository.NewPostgresTaskRepo(dbConn)

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")
	kafka.WaitKafkaReady(ctx, broker, 10*time.Second)
	// подключиться к кафке как продюсер
	topic := appConfig.GetString("KAFKA_TOPIC")
	kafka.InitKafkaTopics(ctx, broker, 10*time.Second, topic)
	pub := wbfkafka.NewProducer([]string{broker}, topic)

	// создаем экземпляр сервиса
	var svc TaskAPIService = service.NewTaskService(appConfig, repo, pub, strg, pdfrender.Inspector{})
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewTaskHandler(svc)
	// сетапим сервер
	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	metricsHandler := metrics.Handler()

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/tasks", handlers.Create)              // создание задачи на обработку
	engine.GET("/tasks", handlers.GetAllTasks)          // получение списка задач с пагинацией и сортировкой
	engine.GET("/tasks/:id", handlers.GetTask)          // статус задачи
	engine.GET("/tasks/:id/result", handlers.LoadResult) // загрузка результата, для pdf - ?page=N
	engine.DELETE("/tasks/:id", handlers.Delete)        // удаление
	engine.GET("/metrics", func(c *ginext.Context) {
		metricsHandler.ServeHTTP(c.Writer, c.Request)
	})

	srv := &http.Server{
		Addr:    ":" + appConfig.GetString("APP_PORT"),
		Handler: mwlogger.NewMWLogger(engine),
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// запускаем фонового воркера для отслеживания подвисших задач
	go recoveryLoop(ctx, svc)

	// ждем отмены контекста для запуска грейсфул закрытия соединений бд и кафки
	<-ctx.Done()

	shutdown(pub, dbConn)
	log.Println("Exiting app...")
}

func recoveryLoop(ctx context.Context, svc TaskAPIService) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovery loop crashed:", r)
		}
	}()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.ReviveOrphans(context.Background(), 20)
		}
	}
}

func shutdown(pub *wbfkafka.Producer, dbConn *dbpg.DB) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// Closing Kafka connection:
	if err := pub.Close(); err != nil {
		log.Println("Failed to close Kafka-producer:", err)
	}
	log.Println("Kafka-producer connection closed.")

	// Closing DB connection
	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}
