package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"serpentarena/server"
)

// SerpentArena 入口：启动 HTTP + WebSocket 服务，并初始化房间注册表。
// 房间在首个玩家加入时创建、最后一个离开时销毁，不做预创建。
func main() {
	// 可选 .env 覆盖（不存在则忽略）
	_ = godotenv.Load()

	var addr, logFile string
	flag.StringVar(&addr, "addr", envOr("ARENA_ADDR", ":8080"), "server listen address, e.g. :8080")
	flag.StringVar(&logFile, "log", envOr("ARENA_LOG", "arena.log"), "log file path")
	flag.Parse()

	// 使用第三方 zap 日志库写入文件（带滚动）
	if err := server.InitLogger(logFile); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	r := mux.NewRouter()
	r.HandleFunc("/ws", server.HandleWS)
	// 管理与监控接口
	r.HandleFunc("/admin/config", server.HandleAdminConfig)
	r.HandleFunc("/metrics", server.HandleMetrics)
	r.HandleFunc("/rooms", server.HandleRooms)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		server.Log.Infof("SerpentArena listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
