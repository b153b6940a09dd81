package service_test

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/geo_mesh_sync/internal/exchange"
	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/packet"
	"github.com/shenikar/geo_mesh_sync/internal/repository"
	"github.com/shenikar/geo_mesh_sync/internal/service"
	"github.com/shenikar/geo_mesh_sync/internal/signer"
	"github.com/shenikar/geo_mesh_sync/internal/transport/udp"
)

var subscriber = strings.Repeat("c3", 32)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func freePort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())
	return port
}

func floodIncident() *models.IncidentRecord {
	return &models.IncidentRecord{
		Phone:        "+15550002",
		SubscriberID: subscriber,
		Title:        strings.Repeat("F", 29),
		Description:  strings.Repeat("w", 400),
		Category:     models.CategoryIncident,
		Latitude:     -33.8688,
		Longitude:    151.2093,
		Timestamp:    1714564800,
		Timezone:     "Australia/Sydney",
		Signature:    signer.PlaceholderSignature,
	}
}

func TestIngest_SamePacketTwiceStoresOnce(t *testing.T) {
	store := repository.NewMemoryStore()
	ports := service.Ports{Location: 5555, Incident: 5556}
	ing, err := service.NewIngestor(store, signer.NewPlaceholder(), ports, nil, 8, newLogger())
	require.NoError(t, err)
	ctx := context.Background()

	payload, err := packet.EncodeIncident(floodIncident())
	require.NoError(t, err)
	assert.Len(t, strings.Split(string(payload), packet.Delimiter), packet.IncidentFieldCount)
	assert.LessOrEqual(t, len(payload), packet.MaxDatagramSize)

	d := models.Datagram{Port: ports.Incident, Source: "10.1.1.1", Payload: payload}
	require.NoError(t, ing.Handle(ctx, d))
	assert.ErrorIs(t, ing.Handle(ctx, d), models.ErrDuplicateRecord)

	_, incidents := store.Counts()
	assert.Equal(t, 1, incidents)

	stored, err := store.GetIncident(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("F", 29), stored.Title)
	assert.Equal(t, "10.1.1.1", stored.Source)
	assert.Equal(t, models.OriginPeer, stored.Origin)
}

func TestIngest_FreshIngestorStillDeduplicatesAgainstStore(t *testing.T) {
	store := repository.NewMemoryStore()
	ports := service.Ports{Location: 5555, Incident: 5556}
	ctx := context.Background()

	payload, err := packet.EncodeIncident(floodIncident())
	require.NoError(t, err)
	d := models.Datagram{Port: ports.Incident, Source: "10.1.1.1", Payload: payload}

	first, err := service.NewIngestor(store, signer.NewPlaceholder(), ports, nil, 8, newLogger())
	require.NoError(t, err)
	require.NoError(t, first.Handle(ctx, d))

	second, err := service.NewIngestor(store, signer.NewPlaceholder(), ports, nil, 8, newLogger())
	require.NoError(t, err)
	assert.ErrorIs(t, second.Handle(ctx, d), models.ErrDuplicateRecord)
}

func locationStream(t *testing.T, phone string, timestamps ...int64) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, ts := range timestamps {
		rec := &models.LocationRecord{
			Phone:        phone,
			SubscriberID: subscriber,
			Latitude:     48.8566,
			Longitude:    2.3522,
			Timestamp:    ts,
			Timezone:     "Europe/Paris",
			Signature:    signer.PlaceholderSignature,
		}
		buf.Write(exchange.Frame(exchange.MarshalLocation(rec)))
	}
	return buf.Bytes()
}

func TestFileSync_ImportTwiceAppliesOnce(t *testing.T) {
	store := repository.NewMemoryStore()
	w := service.NewFileSyncWorker(store, t.TempDir(), "self", time.Minute, newLogger())
	ctx := context.Background()
	data := locationStream(t, "peer-1", 100, 200, 300)

	// Первый прогон вставляет все записи
	res, err := w.Import(ctx, "peer1_20240501.locations.pb", exchange.KindLocation, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Read)
	assert.Equal(t, 3, res.Staged)
	assert.NotEmpty(t, res.RunID)

	// Повторный прогон ничего не вставляет
	res, err = w.Import(ctx, "peer1_20240501.locations.pb", exchange.KindLocation, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Staged)
	assert.Equal(t, 3, res.Skipped)

	locations, _ := store.Counts()
	assert.Equal(t, 3, locations)

	rec, err := store.GetLocation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "file:peer1_20240501.locations.pb", rec.Source)
	assert.Equal(t, models.OriginPeer, rec.Origin)

	totals := w.Totals()
	assert.Equal(t, int64(2), totals.Runs)
	assert.Equal(t, int64(3), totals.Records)
}

func TestFileSync_EmptyStream(t *testing.T) {
	store := repository.NewMemoryStore()
	w := service.NewFileSyncWorker(store, t.TempDir(), "self", time.Minute, newLogger())

	res, err := w.Import(context.Background(), "empty", exchange.KindIncident, bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Staged)
}

func TestFileSync_HighWaterMarkFromStore(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	_, err := store.InsertLocation(ctx, &models.LocationRecord{Phone: "peer-1", Timestamp: 200, Source: "10.0.0.7"})
	require.NoError(t, err)

	w := service.NewFileSyncWorker(store, t.TempDir(), "self", time.Minute, newLogger())
	data := bytes.NewReader(locationStream(t, "peer-1", 100, 200, 300, 300, 250))

	res, err := w.Import(ctx, "f", exchange.KindLocation, data)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Staged)
	assert.Equal(t, 3, res.Skipped)

	ts, ok, err := store.LatestLocationTimestamp(ctx, "peer-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(300), ts)
}

func TestFileSync_MalformedStreamAppliesNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	w := service.NewFileSyncWorker(store, t.TempDir(), "self", time.Minute, newLogger())

	data := locationStream(t, "peer-1", 100, 200)
	truncated := append(data, 0x20, 0x01)

	_, err := w.Import(context.Background(), "broken", exchange.KindLocation, bytes.NewReader(truncated))
	assert.ErrorIs(t, err, exchange.ErrMalformedStream)

	locations, _ := store.Counts()
	assert.Zero(t, locations)
	assert.Equal(t, int64(1), w.Totals().Failed)
}

func TestFileSync_ScanInboxSkipsOwnAndUnchangedFiles(t *testing.T) {
	inbox := t.TempDir()
	store := repository.NewMemoryStore()
	ctx := context.Background()

	own, err := exchange.NewWriter(inbox, "self-1")
	require.NoError(t, err)
	require.NoError(t, own.AppendIncident(floodIncident()))

	peer, err := exchange.NewWriter(inbox, "peer-7")
	require.NoError(t, err)
	inc := floodIncident()
	inc.Phone = "peer-7"
	require.NoError(t, peer.AppendIncident(inc))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "README.txt"), []byte("not an exchange file"), 0o644))

	w := service.NewFileSyncWorker(store, inbox, "self-1", time.Minute, newLogger())

	report, err := w.ScanInbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Records)

	report, err = w.ScanInbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 2, report.Skipped)

	_, incidents := store.Counts()
	assert.Equal(t, 1, incidents)
}

func TestFileSync_ScanMissingInbox(t *testing.T) {
	w := service.NewFileSyncWorker(repository.NewMemoryStore(), filepath.Join(t.TempDir(), "absent"), "self", time.Minute, newLogger())

	report, err := w.ScanInbox(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Files)
}

type capturingSender struct {
	payloads [][]byte
}

func (s *capturingSender) Send(_ context.Context, _ string, payload []byte) error {
	s.payloads = append(s.payloads, append([]byte(nil), payload...))
	return nil
}

// Инцидент, доставленный файлом обмена, продолжает распространяться повторителем
func TestFileSync_ImportedIncidentIsRepeatedToPeers(t *testing.T) {
	ctx := context.Background()
	logger := newLogger()
	ports := service.Ports{Location: 5555, Incident: 5556}
	exchangeDir := t.TempDir()

	// Устройство A создает инцидент и выгружает его в файл обмена
	storeA := repository.NewMemoryStore()
	writer, err := exchange.NewWriter(exchangeDir, "+15550001")
	require.NoError(t, err)
	broadcasterA := service.NewBroadcaster(storeA, repository.NewStaticPeerSource(nil), &capturingSender{}, signer.NewPlaceholder(), ports, logger)
	identity := service.Identity{DeviceID: "+15550001", SubscriberID: subscriber, Timezone: "UTC"}
	_, err = service.NewIncidentService(storeA, writer, broadcasterA, identity, logger).CreateIncident(ctx, models.NewIncident{
		Title:       "Flood",
		Description: "Bridge on Main St is under water",
		Latitude:    40.7128,
		Longitude:   -74.006,
	})
	require.NoError(t, err)

	// Устройство C импортирует файл
	storeC := repository.NewMemoryStore()
	report, err := service.NewFileSyncWorker(storeC, exchangeDir, "device-c", time.Minute, logger).ScanInbox(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Records)
	imported, err := storeC.GetIncident(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, signer.PlaceholderSignature, imported.Signature)

	// Один цикл повторителя на C
	sender := &capturingSender{}
	broadcasterC := service.NewBroadcaster(storeC, repository.NewStaticPeerSource([]string{"10.0.0.4"}), sender, signer.NewPlaceholder(), ports, logger)
	id, err := service.NewRepeater(storeC, broadcasterC, time.Minute, logger).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, sender.payloads, 1)

	// Устройство D принимает повторенный пакет
	storeD := repository.NewMemoryStore()
	ingestor, err := service.NewIngestor(storeD, signer.NewPlaceholder(), ports, nil, 8, logger)
	require.NoError(t, err)
	require.NoError(t, ingestor.Handle(ctx, models.Datagram{Port: ports.Incident, Source: "10.0.0.3", Payload: sender.payloads[0]}))

	_, incidents := storeD.Counts()
	assert.Equal(t, 1, incidents)
}

func TestFileSync_InvalidMessageIsDroppedOthersApplied(t *testing.T) {
	store := repository.NewMemoryStore()
	w := service.NewFileSyncWorker(store, t.TempDir(), "self", time.Minute, newLogger())
	ctx := context.Background()

	// Подготовка: плохое сообщение между двумя корректными
	good := floodIncident()
	bad := floodIncident()
	bad.SubscriberID = "zz"
	bad.Title = strings.Repeat("t", 200)
	bad.Category = "bogus"
	bad.Latitude = 500
	bad.Timezone = "Mars/Olympus"
	bad.Timestamp = good.Timestamp + 1
	later := floodIncident()
	later.Timestamp = good.Timestamp + 2

	var buf bytes.Buffer
	for _, rec := range []*models.IncidentRecord{good, bad, later} {
		buf.Write(exchange.Frame(exchange.MarshalIncident(rec)))
	}

	// Действие
	res, err := w.Import(ctx, "peer2_20240501.incidents.pb", exchange.KindIncident, &buf)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 3, res.Read)
	assert.Equal(t, 2, res.Staged)
	assert.Equal(t, 1, res.Invalid)

	_, incidents := store.Counts()
	assert.Equal(t, 2, incidents)
	for id := int64(1); id <= 2; id++ {
		rec, err := store.GetIncident(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("F", 29), rec.Title)
	}
}

// Устройство A создает инцидент, устройство B принимает его через реальные UDP-сокеты
func TestEngine_IncidentTravelsBetweenDevices(t *testing.T) {
	logger := newLogger()
	ports := service.Ports{Location: freePort(t), Incident: freePort(t)}

	// Устройство B: коллекторы, обработчик и хранилище
	storeB := repository.NewMemoryStore()
	queue := make(chan models.Datagram, 16)
	var collectors []service.Collector
	for name, port := range map[string]int{"location": ports.Location, "incident": ports.Incident} {
		c, err := udp.NewCollector(udp.CollectorConfig{Name: name, Host: "127.0.0.1", Port: port, ReadTimeout: 50 * time.Millisecond}, queue, logger)
		require.NoError(t, err)
		collectors = append(collectors, c)
	}
	ingestor, err := service.NewIngestor(storeB, signer.NewPlaceholder(), ports, queue, 64, logger)
	require.NoError(t, err)
	engine := service.NewEngine(service.EngineParts{Collectors: collectors, Ingestor: ingestor}, logger)
	require.NoError(t, engine.Start(context.Background()))
	assert.ErrorIs(t, engine.Start(context.Background()), service.ErrEngineStarted)

	// Устройство A: отправитель и сервис инцидентов
	sender, err := udp.NewSender(time.Second)
	require.NoError(t, err)
	defer sender.Close()
	storeA := repository.NewMemoryStore()
	broadcaster := service.NewBroadcaster(storeA, repository.NewStaticPeerSource([]string{"127.0.0.1"}), sender, signer.NewPlaceholder(), ports, logger)
	identity := service.Identity{DeviceID: "+15550001", SubscriberID: subscriber, Timezone: "UTC"}
	incidents := service.NewIncidentService(storeA, nil, broadcaster, identity, logger)

	created, err := incidents.CreateIncident(context.Background(), models.NewIncident{
		Title:       "Flood",
		Description: "Bridge on Main St is under water",
		Latitude:    40.7128,
		Longitude:   -74.006,
	})
	require.NoError(t, err)
	assert.Equal(t, signer.PlaceholderSignature, created.Signature)

	require.Eventually(t, func() bool {
		_, n := storeB.Counts()
		return n == 1
	}, 3*time.Second, 20*time.Millisecond)

	got, err := storeB.GetIncident(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Flood", got.Title)
	assert.Equal(t, "+15550001", got.Phone)
	assert.Equal(t, "127.0.0.1", got.Source)

	status := engine.Status()
	assert.True(t, status.Running)
	assert.Equal(t, int64(1), status.Ingest.Stored)
	assert.Len(t, status.Channels, 2)

	engine.Stop()
	status = engine.Status()
	assert.False(t, status.Running)
	for name, alive := range status.Loops {
		assert.False(t, alive, name)
	}
}

func TestEngine_StopWithoutStart(t *testing.T) {
	engine := service.NewEngine(service.EngineParts{}, newLogger())
	engine.Stop()
	assert.False(t, engine.Status().Running)
}
