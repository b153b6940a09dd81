package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// SyncEngine определяет контракт движка синхронизации для внешних точек входа
type SyncEngine interface {
	Status() EngineStatus
	ScanInbox(ctx context.Context) (*ScanReport, error)
}

// ChannelStatus - состояние одного UDP-канала
type ChannelStatus struct {
	Name     string `json:"name"`
	Port     int    `json:"port"`
	Received int64  `json:"received"`
	Running  bool   `json:"running"`
}

// EngineStatus - снимок состояния движка
type EngineStatus struct {
	Running        bool            `json:"running"`
	StartedAt      time.Time       `json:"started_at,omitempty"`
	Channels       []ChannelStatus `json:"channels"`
	Ingest         IngestStats     `json:"ingest"`
	RepeaterCycles int64           `json:"repeater_cycles"`
	Imports        ImportTotals    `json:"imports"`
	Loops          map[string]bool `json:"loops"`
	CurrentFix     *models.Fix     `json:"current_fix,omitempty"`
}

// EngineParts - компоненты, которыми владеет движок
type EngineParts struct {
	Collectors []Collector
	Ingestor   *Ingestor
	Repeater   *Repeater
	FileSync   *FileSyncWorker
	Selector   *FixSelector
}

// Engine запускает и останавливает фоновые циклы: по одной горутине на коллектор,
// обработчик пакетов, повторитель и сканер входящих файлов.
type Engine struct {
	parts  EngineParts
	logger *logrus.Logger

	mu        sync.Mutex
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	loops     map[string]*atomic.Bool
}

var ErrEngineStarted = errors.New("engine already started")

func NewEngine(parts EngineParts, logger *logrus.Logger) *Engine {
	return &Engine{
		parts:  parts,
		logger: logger,
		loops:  make(map[string]*atomic.Bool),
	}
}

// Start запускает все циклы. Повторный запуск возвращает ErrEngineStarted.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return ErrEngineStarted
	}

	ctx, e.cancel = context.WithCancel(ctx)
	for _, c := range e.parts.Collectors {
		e.launch(ctx, "collector:"+c.Name(), c.Run)
	}
	if e.parts.Ingestor != nil {
		e.launch(ctx, "ingestor", e.parts.Ingestor.Run)
	}
	if e.parts.Repeater != nil {
		e.launch(ctx, "repeater", e.parts.Repeater.Run)
	}
	if e.parts.FileSync != nil {
		e.launch(ctx, "inbox", e.parts.FileSync.RunInbox)
	}

	e.started = true
	e.startedAt = time.Now()
	e.logger.WithFields(logrus.Fields{
		"component": "engine",
		"method":    "Start",
		"loops":     len(e.loops),
	}).Info("Sync engine started")
	return nil
}

func (e *Engine) launch(ctx context.Context, name string, run func(context.Context)) {
	alive := &atomic.Bool{}
	alive.Store(true)
	e.loops[name] = alive

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer alive.Store(false)
		run(ctx)
	}()
}

// Stop просит все циклы завершиться и дожидается их. Безопасен без Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	cancel := e.cancel
	e.mu.Unlock()

	for _, c := range e.parts.Collectors {
		c.RequestStop()
	}
	if e.parts.Ingestor != nil {
		e.parts.Ingestor.RequestStop()
	}
	if e.parts.Repeater != nil {
		e.parts.Repeater.RequestStop()
	}
	if e.parts.FileSync != nil {
		e.parts.FileSync.RequestStop()
	}
	cancel()
	e.wg.Wait()

	e.logger.WithFields(logrus.Fields{
		"component": "engine",
		"method":    "Stop",
	}).Info("Sync engine stopped")
}

// Status возвращает снимок счетчиков и живости циклов
func (e *Engine) Status() EngineStatus {
	e.mu.Lock()
	st := EngineStatus{
		Running:   e.started,
		StartedAt: e.startedAt,
		Loops:     make(map[string]bool, len(e.loops)),
	}
	for name, alive := range e.loops {
		st.Loops[name] = alive.Load()
	}
	e.mu.Unlock()

	for _, c := range e.parts.Collectors {
		st.Channels = append(st.Channels, ChannelStatus{
			Name:     c.Name(),
			Port:     c.Port(),
			Received: c.Received(),
			Running:  c.Running(),
		})
	}
	if e.parts.Ingestor != nil {
		st.Ingest = e.parts.Ingestor.Stats()
	}
	if e.parts.Repeater != nil {
		st.RepeaterCycles = e.parts.Repeater.Cycles()
	}
	if e.parts.FileSync != nil {
		st.Imports = e.parts.FileSync.Totals()
	}
	if e.parts.Selector != nil {
		if fix, ok := e.parts.Selector.Current(); ok {
			st.CurrentFix = &fix
		}
	}
	return st
}

// ScanInbox запускает внеочередной просмотр входящего каталога
func (e *Engine) ScanInbox(ctx context.Context) (*ScanReport, error) {
	if e.parts.FileSync == nil {
		return &ScanReport{}, nil
	}
	return e.parts.FileSync.ScanInbox(ctx)
}
