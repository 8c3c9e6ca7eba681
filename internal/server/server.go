// Package server exposes backtest runs, optimizer recommendations, and
// stored results over HTTP, plus a WebSocket stream of equity samples.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"covered-call-lab/internal/backtest"
	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/observability"
	"covered-call-lab/internal/optimizer"
	"covered-call-lab/internal/storage"
)

const dateLayout = "2006-01-02"

// Options configures a Server.
type Options struct {
	RunStore   storage.BacktestRunStore
	TradeStore storage.TradeRecordStore
	CurveStore storage.EquityCurveStore
	BarStore   storage.PriceBarStore
	BaseConfig domain.StrategyConfig
	Logger     *log.Logger
}

// Server is the HTTP API around the backtest engine and stores.
type Server struct {
	runStore   storage.BacktestRunStore
	tradeStore storage.TradeRecordStore
	curveStore storage.EquityCurveStore
	barStore   storage.PriceBarStore
	baseConfig domain.StrategyConfig
	hub        *Hub
	logger     *log.Logger
}

// New creates a Server. The hub's event loop is started by the caller
// via Hub().Run().
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runStore:   opts.RunStore,
		tradeStore: opts.TradeStore,
		curveStore: opts.CurveStore,
		barStore:   opts.BarStore,
		baseConfig: opts.BaseConfig,
		hub:        NewHub(logger),
		logger:     logger,
	}
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Routes builds the HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/api/recommendations", s.handleRecommendations)
	mux.HandleFunc("/api/backtest", s.handleBacktest)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/trades", s.handleTrades)
	mux.HandleFunc("/ws", s.hub.HandleWS)

	return mux
}

// ComboResponse is one recommendation row.
type ComboResponse struct {
	Strike           float64 `json:"strike"`
	DTE              int     `json:"dte"`
	TheoreticalPrice float64 `json:"theoretical_price"`
	NetPremium       float64 `json:"net_premium"`
	Delta            float64 `json:"delta"`
	ThetaDaily       float64 `json:"theta_daily"`
	AnnualizedReturn float64 `json:"annualized_return"`
	UpsidePct        float64 `json:"upside_pct"`
	Score            float64 `json:"score"`
}

// handleRecommendations serves GET /api/recommendations?spot=&vol=.
// Volatility defaults to the configured default when omitted.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	spot, err := strconv.ParseFloat(r.URL.Query().Get("spot"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "spot query parameter is required and must be a number")
		return
	}

	vol := s.baseConfig.DefaultVolatility
	if v := r.URL.Query().Get("vol"); v != "" {
		vol, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "vol must be a number")
			return
		}
	}

	combos, err := optimizer.New(s.baseConfig).Optimize(spot, vol)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	observability.RecordRecommendation(len(combos))

	resp := make([]ComboResponse, len(combos))
	for i, c := range combos {
		resp[i] = ComboResponse{
			Strike:           c.Strike,
			DTE:              c.DTE,
			TheoreticalPrice: c.TheoreticalPrice,
			NetPremium:       c.NetPremium,
			Delta:            c.Delta,
			ThetaDaily:       c.ThetaDaily,
			AnnualizedReturn: c.AnnualizedReturn,
			UpsidePct:        c.UpsidePct,
			Score:            c.Score,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// BacktestRequest is the POST /api/backtest body. Omitted overrides keep
// the server's base configuration values.
type BacktestRequest struct {
	Ticker    string   `json:"ticker"`
	Label     string   `json:"label"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	MinStrike *float64 `json:"min_strike,omitempty"`
	TargetDTE *int     `json:"target_dte,omitempty"`
	Shares    *int     `json:"shares,omitempty"`
}

// RunResponse is the JSON view of one stored run.
type RunResponse struct {
	RunID             string  `json:"run_id"`
	Label             string  `json:"label"`
	Ticker            string  `json:"ticker"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	InitialInvestment float64 `json:"initial_investment"`
	FinalEquity       float64 `json:"final_equity"`

	TotalReturnPct        float64 `json:"total_return_pct"`
	AnnualizedReturnPct   float64 `json:"annualized_return_pct"`
	StockOnlyReturnPct    float64 `json:"stock_only_return_pct"`
	ExcessReturnPct       float64 `json:"excess_return_pct"`
	TotalPremiumCollected float64 `json:"total_premium_collected"`
	TotalCommissions      float64 `json:"total_commissions"`
	PremiumYieldPct       float64 `json:"premium_yield_pct"`
	MaxDrawdownPct        float64 `json:"max_drawdown_pct"`
	SharpeRatio           float64 `json:"sharpe_ratio"`
	TradingDays           int     `json:"trading_days"`
	NumTrades             int     `json:"num_trades"`
	TimesCalledAway       int     `json:"times_called_away"`
	TimesRolled           int     `json:"times_rolled"`
	TimesExpired          int     `json:"times_expired"`
	AvgDaysPerCycle       float64 `json:"avg_days_per_cycle"`
}

func runResponse(rec *domain.RunRecord) RunResponse {
	s := rec.Summary
	return RunResponse{
		RunID:                 rec.RunID,
		Label:                 rec.Label,
		Ticker:                rec.Ticker,
		StartDate:             rec.StartDate.Format(dateLayout),
		EndDate:               rec.EndDate.Format(dateLayout),
		InitialInvestment:     rec.InitialInvestment,
		FinalEquity:           rec.FinalEquity,
		TotalReturnPct:        s.TotalReturnPct,
		AnnualizedReturnPct:   s.AnnualizedReturnPct,
		StockOnlyReturnPct:    s.StockOnlyReturnPct,
		ExcessReturnPct:       s.ExcessReturnPct,
		TotalPremiumCollected: s.TotalPremiumCollected,
		TotalCommissions:      s.TotalCommissions,
		PremiumYieldPct:       s.PremiumYieldPct,
		MaxDrawdownPct:        s.MaxDrawdownPct,
		SharpeRatio:           s.SharpeRatio,
		TradingDays:           s.TradingDays,
		NumTrades:             s.NumTrades,
		TimesCalledAway:       s.TimesCalledAway,
		TimesRolled:           s.TimesRolled,
		TimesExpired:          s.TimesExpired,
		AvgDaysPerCycle:       s.AvgDaysPerCycle,
	}
}

// handleBacktest serves POST /api/backtest: load the stored series, run
// one backtest, persist the result, and stream the curve over the hub.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	cfg := s.baseConfig
	cfg.Ticker = req.Ticker
	cfg.Label = req.Label
	if req.MinStrike != nil {
		cfg.MinStrike = *req.MinStrike
	}
	if req.TargetDTE != nil {
		cfg.TargetDTE = *req.TargetDTE
		cfg.CandidateDTEs = nil
	}
	if req.Shares != nil {
		cfg.Shares = *req.Shares
	}

	bars, err := s.loadBars(r, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(bars) == 0 {
		writeError(w, http.StatusNotFound, "no price bars stored for ticker "+req.Ticker)
		return
	}

	start := time.Now()
	result, err := backtest.NewEngine(cfg).Run(r.Context(), bars)
	if err != nil {
		observability.RecordBacktestRun("error", time.Since(start).Seconds())
		writeDomainError(w, err)
		return
	}
	observability.RecordBacktestRun("success", time.Since(start).Seconds())
	observability.RecordBarsProcessed(len(bars))
	for _, t := range result.Trades {
		observability.RecordTradeClosed(t.Outcome)
	}

	if err := s.persist(r, result); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			writeError(w, http.StatusConflict, "identical run already stored: "+result.RunID)
			return
		}
		s.logger.Printf("persist run %s: %v", result.RunID, err)
		writeError(w, http.StatusInternalServerError, "failed to persist run")
		return
	}

	for _, sample := range result.EquityCurve {
		s.hub.BroadcastSample(sample)
	}

	writeJSON(w, http.StatusCreated, runResponse(result.Record()))
}

func (s *Server) loadBars(r *http.Request, req BacktestRequest) ([]domain.PriceBar, error) {
	if req.StartDate == "" && req.EndDate == "" {
		return s.barStore.GetByTicker(r.Context(), req.Ticker)
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return s.barStore.GetByDateRange(r.Context(), req.Ticker, start, end)
}

func (s *Server) persist(r *http.Request, result *domain.BacktestResult) error {
	ctx := r.Context()
	if err := s.runStore.Insert(ctx, result.Record()); err != nil {
		return err
	}
	if err := s.tradeStore.InsertBulk(ctx, result.Trades); err != nil {
		return err
	}
	return s.curveStore.InsertBulk(ctx, result.EquityCurve)
}

// handleRuns serves GET /api/runs[?ticker=].
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		runs []*domain.RunRecord
		err  error
	)
	if ticker := r.URL.Query().Get("ticker"); ticker != "" {
		runs, err = s.runStore.GetByTicker(r.Context(), ticker)
	} else {
		runs, err = s.runStore.GetAll(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]RunResponse, len(runs))
	for i, rec := range runs {
		resp[i] = runResponse(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// TradeResponse is the JSON view of one closed trade.
type TradeResponse struct {
	TradeID         string  `json:"trade_id"`
	RunID           string  `json:"run_id"`
	OpenDate        string  `json:"open_date"`
	CloseDate       string  `json:"close_date"`
	Strike          float64 `json:"strike"`
	Expiration      string  `json:"expiration"`
	Contracts       int     `json:"contracts"`
	OpenSpot        float64 `json:"open_spot"`
	CloseSpot       float64 `json:"close_spot"`
	PremiumReceived float64 `json:"premium_received"`
	BuybackCost     float64 `json:"buyback_cost"`
	NetPnL          float64 `json:"net_pnl"`
	Outcome         string  `json:"outcome"`
}

// handleTrades serves GET /api/trades?run_id=.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "run_id query parameter is required")
		return
	}

	trades, err := s.tradeStore.GetByRunID(r.Context(), runID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]TradeResponse, len(trades))
	for i, t := range trades {
		resp[i] = TradeResponse{
			TradeID:         t.TradeID,
			RunID:           t.RunID,
			OpenDate:        t.OpenDate.Format(dateLayout),
			CloseDate:       t.CloseDate.Format(dateLayout),
			Strike:          t.Contract.Strike,
			Expiration:      t.Contract.Expiration.Format(dateLayout),
			Contracts:       t.Contracts,
			OpenSpot:        t.OpenSpot,
			CloseSpot:       t.CloseSpot,
			PremiumReceived: t.PremiumReceived,
			BuybackCost:     t.BuybackCost,
			NetPnL:          t.NetPnL,
			Outcome:         t.Outcome,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, storage.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientHistory), errors.Is(err, domain.ErrDataIntegrity):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
