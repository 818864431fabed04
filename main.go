package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nmishr/flowgate/analytics"
	"github.com/nmishr/flowgate/config"
	"github.com/nmishr/flowgate/engine"
	"github.com/nmishr/flowgate/gateway"
	"github.com/nmishr/flowgate/logger"
	"github.com/nmishr/flowgate/metadata"
	persistenceredis "github.com/nmishr/flowgate/persistence/redis"
	"github.com/nmishr/flowgate/rest"
	"github.com/nmishr/flowgate/service"
	"github.com/nmishr/flowgate/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cli struct {
	cfg config.Config
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "memory", "implementation of workflow definition storage")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "flowgate", "namespace used in storage")
	cmd.Flags().String("runtime-endpoint", "", "runtime tool server endpoint")
	cmd.Flags().String("model-endpoint", "", "model backend endpoint")
	cmd.Flags().String("model-name", "", "model name to request")
	cmd.Flags().Bool("enable-script", false, "register the local script gateway")
	cmd.Flags().Int("session-shards", 8, "number of in memory session shards")
	cmd.Flags().Int("session-ttl", 3600, "session entry ttl in seconds, 0 keeps entries forever")
	cmd.Flags().String("analytics-file", "", "file to record step analytics into")
	cmd.Flags().String("log-level", "info", "log level")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.RuntimeEndpoint = viper.GetString("runtime-endpoint")
	c.cfg.ModelEndpoint = viper.GetString("model-endpoint")
	c.cfg.ModelName = viper.GetString("model-name")
	c.cfg.EnableScript = viper.GetBool("enable-script")
	c.cfg.SessionConfig.ShardCount = viper.GetInt("session-shards")
	c.cfg.SessionConfig.TTLSeconds = viper.GetInt("session-ttl")
	c.cfg.LogLevel = viper.GetString("log-level")
	if file := viper.GetString("analytics-file"); len(file) > 0 {
		c.cfg.AnalyticsConfig = analytics.DataCollectorConfig{
			FileName:      file,
			CollectorType: analytics.LOG_FILE_DATA_COLLECTOR,
		}
	}
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	if err := logger.InitLogger(logger.LogConfig{Level: c.cfg.LogLevel}); err != nil {
		return err
	}
	if err := analytics.InitDataCollector(c.cfg.AnalyticsConfig); err != nil {
		return err
	}
	if err := engine.RegisterViews(); err != nil {
		return err
	}

	var storage metadata.WorkflowStorage
	var sessions session.Store
	switch c.cfg.StorageType {
	case config.STORAGE_TYPE_REDIS:
		redisConf := persistenceredis.Config{
			Addrs:     c.cfg.RedisConfig.Addrs,
			Namespace: c.cfg.RedisConfig.Namespace,
		}
		storage = persistenceredis.NewRedisWorkflowStorage(redisConf)
		sessions = persistenceredis.NewRedisSessionStore(redisConf)
	default:
		storage = metadata.NewInMemoryWorkflowStorage()
		memSessions := session.NewMemoryStore(c.cfg.SessionConfig.ShardCount,
			time.Duration(c.cfg.SessionConfig.TTLSeconds)*time.Second)
		defer memSessions.Stop()
		sessions = memSessions
	}

	meta, err := metadata.NewMetadataService(storage)
	if err != nil {
		return err
	}

	var gateways []gateway.Gateway
	if len(c.cfg.RuntimeEndpoint) > 0 {
		toolClient, err := gateway.DialRuntime(context.Background(), c.cfg.RuntimeEndpoint)
		if err != nil {
			return err
		}
		gateways = append(gateways, gateway.NewRuntimeGateway("runtime", toolClient))
	}
	if len(c.cfg.ModelEndpoint) > 0 {
		modelClient := gateway.NewHttpModelClient(c.cfg.ModelEndpoint, c.cfg.ModelName)
		gateways = append(gateways, gateway.NewModelGateway(modelClient))
	}
	if c.cfg.EnableScript {
		gateways = append(gateways, gateway.NewScriptGateway())
	}

	eng := engine.NewEngine()
	handler := service.NewWorkflowHandler(eng, meta, sessions, gateways)
	defer handler.Stop()

	server, err := rest.NewServer(c.cfg.HttpPort, handler)
	if err != nil {
		return err
	}
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("http server stopped")
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return server.Stop()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "flowgate",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
