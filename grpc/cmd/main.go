package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go"
	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"github.com/ridge/must/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	pb "github.com/cardapio-project/cardapio/grpc"
	cardapioAuth "github.com/cardapio-project/cardapio/grpc/auth"
	"github.com/cardapio-project/cardapio/grpc/impl"
	"github.com/cardapio-project/cardapio/grpc/impl/font"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/grpc/impl/style"
	"github.com/cardapio-project/cardapio/pkg/env"
	yaHttp "github.com/cardapio-project/cardapio/pkg/http"
	"github.com/cardapio-project/cardapio/pkg/utils"
)

// Overridden at build time with -ldflags "-X main.version=...".
var version = "11.0-final-image-gen"

func main() {
	env.Load()
	config := loadConfig()
	setupLogger(config.LogLevel, config.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := newWiring(ctx, config)
	defer w.Close()

	fontProvider := must.OK1(font.New(config.FontDir))
	store := w.jobStore()

	server := impl.New(
		w.detector(),
		style.New(w.styleInferrer(), config.Style.Timeout),
		w.filler(),
		fontProvider,
		w.backgroundGenerator(),
		store,
		version,
	)

	var authClient cardapioAuth.Auth
	if config.Auth.Enabled {
		app := must.OK1(firebase.NewApp(ctx, &firebase.Config{ProjectID: config.GCPProjectID}))
		authClient = cardapioAuth.New(must.OK1(app.Auth(ctx)), config.Auth.AllowedDomains)
	}

	// Image size limit for Vision & OpenAI API is 20MB.
	// Ref: https://cloud.google.com/vision/quotas#limits
	serverOptions := []grpc.ServerOption{
		grpc.ForceServerCodec(pb.Codec),
		grpc.MaxRecvMsgSize(2 * impl.MaxUploadBytes),
	}
	if authClient != nil {
		serverOptions = append(serverOptions, grpc.UnaryInterceptor(
			cardapioAuth.UnaryInterceptor(authClient, pb.MenuService_GetVersion_FullMethodName),
		))
	}
	grpcServer := grpc.NewServer(serverOptions...)
	pb.RegisterMenuServiceServer(grpcServer, server)

	go storage.RunSweeper(ctx, store, config.Storage.TTL, config.Storage.SweepInterval)
	go runGrpcServer(grpcServer, config.GRPCPort)

	webServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.WebPort),
		Handler:           webHandler(grpcServer, server, authClient, config),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		webServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
	}()

	log.Info().Int("port", config.WebPort).Str("version", version).Msg("Cardapio web server listening")
	if err := webServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Web server failed")
	}
}

func setupLogger(level string, format string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func runGrpcServer(grpcServer *grpc.Server, port int) {
	log.Info().Int("port", port).Msg("Cardapio gRPC server listening")
	must.OK(grpcServer.Serve(must.OK1(net.Listen("tcp", fmt.Sprintf(":%d", port)))))
}

// REST routes, gRPC-web and the static web client share one port.
func webHandler(grpcServer *grpc.Server, server interface{ RegisterRoutes(*http.ServeMux) }, authClient cardapioAuth.Auth, config Config) http.Handler {
	grpcwebServer := grpcweb.WrapServer(grpcServer,
		grpcweb.WithOriginFunc(func(origin string) bool {
			return utils.Contains(config.UIOrigins, origin)
		}),
	)

	routes := http.NewServeMux()
	server.RegisterRoutes(routes)
	var protected http.Handler = routes
	if authClient != nil {
		protected = cardapioAuth.Middleware(authClient, routes)
	}

	defaultHandler := func(w http.ResponseWriter, r *http.Request) {
		if grpcwebServer.IsGrpcWebRequest(r) || grpcwebServer.IsAcceptableGrpcCorsRequest(r) {
			grpcwebServer.ServeHTTP(w, r)
			return
		}
		if config.StaticFileDir == "" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, config.StaticFileDir+"/index.html")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", defaultHandler)
	mux.Handle("/api/", protected)
	mux.Handle("/download/", protected)
	mux.Handle("GET /verversao", routes)
	if config.StaticFileDir != "" {
		mux.HandleFunc("/assets/", yaHttp.HandleFileServer(http.FileServer(http.Dir(config.StaticFileDir))))
	}
	return mux
}
