package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/exchange"
	"github.com/shenikar/geo_mesh_sync/internal/metrics"
	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/packet"
)

// ImportResult - итог импорта одного файла обмена
type ImportResult struct {
	RunID   string        `json:"run_id"`
	File    string        `json:"file"`
	Kind    exchange.Kind `json:"kind"`
	Read    int           `json:"read"`
	Staged  int           `json:"staged"`
	Skipped int           `json:"skipped"`
	Invalid int           `json:"invalid"`
}

// ScanReport - итог одного просмотра входящего каталога
type ScanReport struct {
	Files    int             `json:"files"`
	Imported int             `json:"imported"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Records  int             `json:"records"`
	Results  []*ImportResult `json:"results,omitempty"`
}

// ImportTotals - накопленные счетчики импорта
type ImportTotals struct {
	Runs    int64 `json:"runs"`
	Failed  int64 `json:"failed"`
	Records int64 `json:"records"`
}

type fileState struct {
	size    int64
	modTime time.Time
}

// FileSyncWorker импортирует чужие файлы обмена, применяя только записи новее
// отметки уровня (high-water mark) источника.
type FileSyncWorker struct {
	store    RecordStore
	inboxDir string
	deviceID string
	interval time.Duration
	logger   *logrus.Logger

	scanMu sync.Mutex
	seen   map[string]fileState

	runs    atomic.Int64
	failed  atomic.Int64
	records atomic.Int64

	stopOnce sync.Once
	done     chan struct{}
}

func NewFileSyncWorker(store RecordStore, inboxDir, deviceID string, interval time.Duration, logger *logrus.Logger) *FileSyncWorker {
	return &FileSyncWorker{
		store:    store,
		inboxDir: inboxDir,
		deviceID: exchange.NormalizeDeviceID(deviceID),
		interval: interval,
		logger:   logger,
		seen:     make(map[string]fileState),
		done:     make(chan struct{}),
	}
}

// Import читает поток до конца и одной пачкой применяет записи новее отметки уровня.
// Поврежденный поток прерывает импорт, ничего не применяя.
func (w *FileSyncWorker) Import(ctx context.Context, name string, kind exchange.Kind, r io.Reader) (*ImportResult, error) {
	result := &ImportResult{RunID: uuid.NewString(), File: name, Kind: kind}
	log := w.logger.WithFields(logrus.Fields{
		"component": "filesync",
		"method":    "Import",
		"run_id":    result.RunID,
		"file":      name,
		"kind":      kind,
	})

	batch, err := w.stage(ctx, log, kind, filepath.Base(name), exchange.NewReader(r), result)
	if err != nil {
		w.fail()
		log.WithError(err).Error("Import aborted, nothing applied")
		return result, fmt.Errorf("filesync: import %s: %w", name, err)
	}

	if batch.Len() > 0 {
		if err := w.store.ApplyBatch(ctx, batch); err != nil {
			w.fail()
			log.WithError(err).Error("Failed to apply staged records")
			return result, fmt.Errorf("filesync: apply %s: %w", name, err)
		}
	}

	w.runs.Add(1)
	w.records.Add(int64(result.Staged))
	metrics.ImportRuns.WithLabelValues("ok").Inc()
	metrics.ImportedRecords.WithLabelValues(string(kind)).Add(float64(result.Staged))
	log.WithFields(logrus.Fields{
		"read":    result.Read,
		"staged":  result.Staged,
		"skipped": result.Skipped,
		"invalid": result.Invalid,
	}).Info("Exchange file imported")
	return result, nil
}

func (w *FileSyncWorker) fail() {
	w.runs.Add(1)
	w.failed.Add(1)
	metrics.ImportRuns.WithLabelValues("failed").Inc()
}

// hwm хранит отметки уровня источников, запрошенные в рамках одного прогона
type hwm struct {
	marks  map[string]int64
	staged map[string]struct{}
	latest func(ctx context.Context, phone string) (int64, bool, error)
}

// admit сообщает, нужно ли ставить запись в пачку. Отметка запрашивается один раз на источник.
func (h *hwm) admit(ctx context.Context, phone string, ts int64) (bool, error) {
	mark, ok := h.marks[phone]
	if !ok {
		latest, found, err := h.latest(ctx, phone)
		if err != nil {
			return false, err
		}
		mark = -1
		if found {
			mark = latest
		}
		h.marks[phone] = mark
	}
	if ts <= mark {
		return false, nil
	}
	key := fmt.Sprintf("%s/%d", phone, ts)
	if _, dup := h.staged[key]; dup {
		return false, nil
	}
	h.staged[key] = struct{}{}
	return true, nil
}

func (w *FileSyncWorker) stage(ctx context.Context, log *logrus.Entry, kind exchange.Kind, base string, reader *exchange.Reader, result *ImportResult) (*models.Batch, error) {
	marks := &hwm{marks: map[string]int64{}, staged: map[string]struct{}{}}
	switch kind {
	case exchange.KindLocation:
		marks.latest = w.store.LatestLocationTimestamp
	case exchange.KindIncident:
		marks.latest = w.store.LatestIncidentTimestamp
	default:
		return nil, fmt.Errorf("unknown exchange kind %q", kind)
	}

	source := "file:" + base
	batch := &models.Batch{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return batch, nil
		}
		if err != nil {
			return nil, err
		}
		result.Read++

		var (
			phone   string
			ts      int64
			add     func()
			invalid error
		)
		if kind == exchange.KindLocation {
			rec, err := exchange.UnmarshalLocation(msg)
			if err != nil {
				return nil, fmt.Errorf("%w: message %d: %v", exchange.ErrMalformedStream, result.Read, err)
			}
			invalid = packet.CheckLocationRecord(rec)
			rec.Origin, rec.Source = models.OriginPeer, source
			phone, ts = rec.Phone, rec.Timestamp
			add = func() { batch.Locations = append(batch.Locations, rec) }
		} else {
			rec, err := exchange.UnmarshalIncident(msg)
			if err != nil {
				return nil, fmt.Errorf("%w: message %d: %v", exchange.ErrMalformedStream, result.Read, err)
			}
			invalid = packet.CheckIncidentRecord(rec)
			rec.Origin, rec.Source = models.OriginPeer, source
			phone, ts = rec.Phone, rec.Timestamp
			add = func() { batch.Incidents = append(batch.Incidents, rec) }
		}

		if invalid != nil {
			log.WithError(invalid).WithField("message", result.Read).Warn("Dropping invalid exchange message")
			result.Invalid++
			continue
		}
		ok, err := marks.admit(ctx, phone, ts)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Skipped++
			continue
		}
		add()
		result.Staged++
	}
}

// ImportFile импортирует файл обмена, тип берется из имени файла
func (w *FileSyncWorker) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	_, kind, ok := exchange.ParseFileName(filepath.Base(path))
	if !ok {
		return nil, fmt.Errorf("filesync: %q is not an exchange file name", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filesync: open %s: %w", path, err)
	}
	defer f.Close()
	return w.Import(ctx, path, kind, f)
}

// ScanInbox просматривает входящий каталог и импортирует новые или изменившиеся чужие файлы
func (w *FileSyncWorker) ScanInbox(ctx context.Context) (*ScanReport, error) {
	log := w.logger.WithFields(logrus.Fields{
		"component": "filesync",
		"method":    "ScanInbox",
		"dir":       w.inboxDir,
	})

	w.scanMu.Lock()
	defer w.scanMu.Unlock()

	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ScanReport{}, nil
		}
		return nil, fmt.Errorf("filesync: read inbox: %w", err)
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Name() < entries[b].Name() })

	report := &ScanReport{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		device, _, ok := exchange.ParseFileName(e.Name())
		if !ok {
			continue
		}
		report.Files++
		if device == w.deviceID {
			report.Skipped++
			continue
		}
		info, err := e.Info()
		if err != nil {
			report.Failed++
			log.WithError(err).WithField("file", e.Name()).Warn("Failed to stat exchange file")
			continue
		}
		state := fileState{size: info.Size(), modTime: info.ModTime()}
		if prev, ok := w.seen[e.Name()]; ok && prev.size == state.size && prev.modTime.Equal(state.modTime) {
			report.Skipped++
			continue
		}

		res, err := w.ImportFile(ctx, filepath.Join(w.inboxDir, e.Name()))
		if err != nil {
			report.Failed++
			continue
		}
		w.seen[e.Name()] = state
		report.Imported++
		report.Records += res.Staged
		report.Results = append(report.Results, res)
	}

	if report.Imported > 0 || report.Failed > 0 {
		log.WithFields(logrus.Fields{
			"imported": report.Imported,
			"failed":   report.Failed,
			"records":  report.Records,
		}).Info("Inbox scanned")
	}
	return report, nil
}

// RunInbox просматривает входящий каталог с заданным интервалом
func (w *FileSyncWorker) RunInbox(ctx context.Context) {
	log := w.logger.WithFields(logrus.Fields{
		"component": "filesync",
		"method":    "RunInbox",
	})
	log.WithField("interval", w.interval.String()).Info("Inbox scanner started")
	defer log.Info("Inbox scanner stopped")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			if _, err := w.ScanInbox(ctx); err != nil {
				log.WithError(err).Warn("Inbox scan failed")
			}
		}
	}
}

// RequestStop просит цикл RunInbox завершиться
func (w *FileSyncWorker) RequestStop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// Totals возвращает накопленные счетчики импорта
func (w *FileSyncWorker) Totals() ImportTotals {
	return ImportTotals{
		Runs:    w.runs.Load(),
		Failed:  w.failed.Load(),
		Records: w.records.Load(),
	}
}
