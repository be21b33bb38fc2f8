package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/pixelforge/stampd/internal/fontkit"
	"github.com/pixelforge/stampd/internal/kafka"
	"github.com/pixelforge/stampd/internal/metrics"
	"github.com/pixelforge/stampd/internal/pdfrender"
	"github.com/pixelforge/stampd/internal/repository"
	"github.com/pixelforge/stampd/internal/service"
	"github.com/pixelforge/stampd/internal/storage"
	"github.com/pixelforge/stampd/internal/worker"
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
	if err := zlog.SetLevel("info"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// подключитсья к базе
	dbConn := repository.ConnectWithRetries(appConfig, 5, 10*time.Second)
	// подкллючиться к хранилищу
	strg := storage.NewFileStorage(appConfig, 10*time.Second)
	// создаем экземпляр репо
	repo := repository.NewPostgresTaskRepo(dbConn)
	// создаем экземпляр сервиса
	var svc TaskWorkerService = service.NewTaskService(appConfig, repo, worker.NoopPublisher{}, strg, pdfrender.Inspector{})

	// шрифт для текстовых ватермарок - при недоступности файла откатываемся на встроенный
	fonts, err := fontkit.Resolve(appConfig.GetString("FONT_PATH"))
	if err != nil {
		log.Fatalf("Failed to prepare fonts: %v", err)
	}

	// клиент растеризатора pdf-страниц
	dpi, _ := strconv.Atoi(appConfig.GetString("RASTERIZER_DPI"))
	rasterizer := pdfrender.NewClient(appConfig.GetString("RASTERIZER_URL"), dpi)

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")

	// Listening to interruptions through context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kafka.WaitKafkaReady(ctx, broker, 10*time.Second)
	// подключиться к кафке как читатель
	queue := make(chan kafkago.Message)
	retryStrategy := retry.Strategy{
		Attempts: 5,
		Delay:    2 * time.Second,
		Backoff:  1.5,
	}
	topic := appConfig.GetString("KAFKA_TOPIC")
	groupID := appConfig.GetString("KAFKA_GROUPID")
	cons := wbfkafka.NewConsumer([]string{broker}, topic, groupID)

	cons.StartConsuming(ctx, queue, retryStrategy)

	// отдельный слушатель для прометеевских метрик
	if metricsPort := appConfig.GetString("METRICS_PORT"); metricsPort != "" {
		go serveMetrics(metricsPort)
	}

	resultPrefix := appConfig.GetString("RESULT_KEY_PREFIX")
	if resultPrefix == "" {
		resultPrefix = "result/"
	}

	// Собираем воедино все что нужно воркеру и запускаем его
	go worker.NewWorkerInstance(strg, svc, rasterizer, fonts, queue, cons, resultPrefix).StartWorker(ctx)

	// Waiting for interruption to stop context to start Graceful shutdown
	<-ctx.Done()

	shutdown(cons, dbConn)
	log.Println("Exiting worker...")
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("Metrics listener stopped: %v", err)
	}
}

func shutdown(cons *wbfkafka.Consumer, dbConn *dbpg.DB) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// Closing Kafka connection:
	if err := cons.Close(); err != nil {
		log.Println("Failed to close Kafka-reader:", err)
	}
	log.Println("Kafka-consumer connection closed.")

	// Closing DB connection
	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}
