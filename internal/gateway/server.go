package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/vehicles/internal/auth"
	"github.com/nao1215/vehicles/internal/config"
	"github.com/nao1215/vehicles/internal/store"
	"github.com/nao1215/vehicles/internal/user"
	"github.com/nao1215/vehicles/internal/vehicle"
	"github.com/nao1215/vehicles/pkg/httpclient"
	"github.com/nao1215/vehicles/pkg/metrics"
	"github.com/nao1215/vehicles/pkg/middleware"
)

// loginSuccessMessage はログイン成功時のメッセージ。
const loginSuccessMessage = "login successful"

// Server は車両APIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// db はSQLiteデータベース接続。テスト用に外部から注入した場合はnil。
	db *sql.DB
	// codec はトークンの発行と検証を行う。
	codec *middleware.TokenCodec
	// auth はユーザー登録とログインを行う。
	auth *auth.Service
	// vehicles は車両一覧のストア。
	vehicles vehicle.Lister
	// metrics は認証判定などを計測する。
	metrics *metrics.Prom
}

// NewServer は設定から新しいサーバーを生成する。
// Credential Storeへの接続に失敗した場合はエラーを返す。
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("ユーザーストアの初期化に失敗: %w", err)
	}

	var vehicles vehicle.Lister
	if cfg.VehiclesURL != "" {
		vehicles = vehicle.NewRemoteStore(cfg.VehiclesURL)
		log.Printf("車両一覧を上流サービスから取得します: %s", cfg.VehiclesURL)
	} else {
		local := vehicle.NewSQLiteStore(db)
		n, err := local.SeedDefault(ctx)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("車両データの投入に失敗: %w", err)
		}
		if n > 0 {
			log.Printf("車両データを%d件投入しました", n)
		}
		vehicles = local
	}

	s, err := newServer(cfg, user.NewStore(db), vehicles)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.db = db
	return s, nil
}

// newServer は依存を受け取ってサーバーを組み立てる。
func newServer(cfg *config.Config, users auth.CredentialStore, vehicles vehicle.Lister) (*Server, error) {
	codec, err := middleware.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("トークンコーデックの初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	m := metrics.NewProm("vehicles")
	s := &Server{
		router:   router,
		port:     cfg.Port,
		codec:    codec,
		auth:     auth.NewService(users, codec, m),
		vehicles: vehicles,
		metrics:  m,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 信頼を生成するエンドポイント（認証不要）
	s.router.POST("/api/register", s.handleRegister())
	s.router.POST("/api/login", s.handleLogin())

	// 認証必須のAPIエンドポイント
	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.codec, s.metrics))
	{
		api.GET("/vehicles", s.handleListVehicles())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "vehicles"})
	})
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})
}

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	// UserName はログイン名。
	UserName string `json:"userName"`
	// Password はパスワード。
	Password string `json:"password"`
	// Password2 は確認用パスワード。
	Password2 string `json:"password2"`
	// FullName は表示用の氏名。
	FullName string `json:"fullName"`
	// Role はユーザーのロール。
	Role string `json:"role"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// UserName はログイン名。
	UserName string `json:"userName"`
	// Password はパスワード。
	Password string `json:"password"`
}

// messageResponse はメッセージのみのJSONレスポンス構造。
type messageResponse struct {
	Message string `json:"message"`
}

// loginResponse はログイン成功時のJSONレスポンス構造。
type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// handleRegister はユーザー登録を処理するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: "Invalid request body"})
			return
		}

		msg, err := s.auth.Register(c.Request.Context(), user.Candidate{
			UserName:  req.UserName,
			Password:  req.Password,
			Password2: req.Password2,
			FullName:  req.FullName,
			Role:      req.Role,
		})
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: clientMessage(err)})
			return
		}
		c.JSON(http.StatusOK, messageResponse{Message: msg})
	}
}

// handleLogin はログインを処理し、トークンを発行するハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: "Invalid request body"})
			return
		}

		_, token, err := s.auth.Login(c.Request.Context(), user.Credential{
			UserName: req.UserName,
			Password: req.Password,
		})
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: clientMessage(err)})
			return
		}
		c.JSON(http.StatusOK, loginResponse{Message: loginSuccessMessage, Token: token})
	}
}

// handleListVehicles は車両一覧を返すハンドラを返す。
// JWTAuthで認証済みのリクエストだけが到達する。
func (s *Server) handleListVehicles() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := httpclient.WithUserID(c.Request.Context(), middleware.GetUserID(c))
		vehicles, err := s.vehicles.List(ctx)
		if err != nil {
			log.Printf("車両一覧の取得エラー: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, vehicles)
	}
}

// clientMessage はクライアントに返すメッセージを取り出す。
func clientMessage(err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "Request failed"
}
