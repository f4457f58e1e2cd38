package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"printpost-backend/internal/config"
	"printpost-backend/internal/domain"
	"printpost-backend/internal/usecase"
)

type Server struct {
	cfg      config.Config
	checkout *usecase.CheckoutService
	webhooks *usecase.WebhookService
	auth     *usecase.OperatorAuth
	store    usecase.OrderStore
	router   *gin.Engine
}

func New(cfg config.Config, checkout *usecase.CheckoutService, webhooks *usecase.WebhookService, auth *usecase.OperatorAuth, store usecase.OrderStore) *Server {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg:      cfg,
		checkout: checkout,
		webhooks: webhooks,
		auth:     auth,
		store:    store,
		router:   gin.New(),
	}
	s.router.Use(gin.Logger(), gin.Recovery(), s.cors())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.POST("/api/create-checkout-session", s.handleCreateCheckoutSession)
	s.router.POST("/api/stripe-webhook", s.handleStripeWebhook)
	s.router.GET("/api/orders", s.requireOperator(), s.handleListOrders)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// cors answers preflights itself so OPTIONS returns 200 with an empty body,
// which is what the deployed frontend expects.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

type checkoutMetadataReq struct {
	Sender           string `json:"sender"`
	SenderAddress    string `json:"sender_address"`
	Recipient        string `json:"recipient"`
	RecipientAddress string `json:"recipient_address"`
}

type createCheckoutReq struct {
	FileURL string `json:"fileUrl"`
	// Clients send pageCount as either a number or a string; pricing
	// coerces whatever arrives.
	PageCount     any                 `json:"pageCount"`
	PrintType     string              `json:"printType"`
	MailType      string              `json:"mailType"`
	PaperSize     string              `json:"paperSize"`
	CustomerEmail string              `json:"customerEmail"`
	Metadata      checkoutMetadataReq `json:"metadata"`
}

func (s *Server) handleCreateCheckoutSession(c *gin.Context) {
	var req createCheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	order := domain.OrderRequest{
		FileURL:       req.FileURL,
		PageCount:     rawPageCount(req.PageCount),
		PrintType:     domain.ParsePrintType(req.PrintType),
		MailType:      domain.ParseMailType(req.MailType),
		PaperSize:     domain.ParsePaperSize(req.PaperSize),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Sender:        domain.PartyInfo{Name: req.Metadata.Sender, Address: req.Metadata.SenderAddress},
		Recipient:     domain.PartyInfo{Name: req.Metadata.Recipient, Address: req.Metadata.RecipientAddress},
	}

	res, err := s.checkout.Create(c.Request.Context(), order)
	if err != nil {
		var verr domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) {
			log.Printf("checkout: %v", uerr)
			c.JSON(http.StatusBadGateway, gin.H{"error": uerr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleStripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	err = s.webhooks.HandleDelivery(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		var aerr domain.AuthenticityError
		if errors.As(err, &aerr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": aerr.Error()})
			return
		}
		var cerr domain.CorruptEventError
		if errors.As(err, &cerr) {
			// Authenticated but unusable. Ack anyway: the payment succeeded
			// and redelivery cannot fix the metadata.
			log.Printf("webhook: %v", cerr)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		log.Printf("webhook: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (s *Server) requireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || s.auth.Verify(token) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleListOrders(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)
	if pageSize > 100 {
		pageSize = 100
	}
	orders, total := s.store.List(page, pageSize)
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

func rawPageCount(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
