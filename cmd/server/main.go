package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	adminapi "github.com/elektrobil/bulutvizyon/internal/api/admin"
	tvapi "github.com/elektrobil/bulutvizyon/internal/api/tv"
	"github.com/elektrobil/bulutvizyon/internal/cache"
	"github.com/elektrobil/bulutvizyon/internal/db"
	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/notify"
)

func main() {
	env := LoadEnvironment()

	conn, err := db.Open(env.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db open failed")
	}
	if err := db.RunMigrations(conn, env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}
	store := db.NewStore(conn)

	var invalidator engine.Invalidator
	var views *cache.Views
	if env.RedisAddress != "" {
		views = cache.New(env.RedisAddress, env.RedisUsername, env.RedisPassword)
		invalidator = views
	}

	var notifier engine.Notifier
	if env.MQTTBrokerURL != "" {
		publisher, err := notify.Connect(env.MQTTBrokerURL, "bulutvizyon-server")
		if err != nil {
			log.Error().Err(err).Msg("mqtt connect failed, running without refresh pings")
		} else {
			defer publisher.Close()
			notifier = publisher
		}
	}

	materializer := engine.NewMaterializer(store, store, store, store, invalidator, notifier)
	counters := engine.NewCounterMaintainer(store)
	playlists := engine.NewPlaylistService(store, store, materializer, counters)
	screens := engine.NewScreenService(store, store, store, invalidator, notifier)
	cascades := engine.NewCascadeService(store, store, store, store, materializer, counters)
	normalizer := engine.NewNormalizer(store, store, store, store)

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.Default())

	admin := r.Group("/api/admin")
	adminapi.RegisterPlaylistRoutes(admin, store, playlists, counters, cascades, normalizer)
	adminapi.RegisterScreenRoutes(admin, store, screens, materializer, cascades, normalizer)
	adminapi.RegisterMediaRoutes(admin, store, cascades, normalizer)

	tv := r.Group("/api/tv")
	tvapi.RegisterPlayerRoutes(tv, store, views)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
