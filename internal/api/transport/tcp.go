package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"mtmonitor/internal/models"
	"mtmonitor/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Таймаут чтения одной строки; терминал шлёт снапшот и ждёт ответ
	readTimeout = 30 * time.Second

	// Максимальная длина одной строки снапшота
	maxLineSize = 1 << 20
)

// TCPListener принимает снапшоты по TCP в формате line-delimited JSON
//
// Назначение:
// Альтернативный ingest для экспортёров без HTTP стека: одно
// TCP-соединение, один снапшот JSON на строку, синхронный ответ
// "OK" либо "ERROR: <причина>" на каждую строку.
//
// Семантика обработки идентична POST /api/data: та же чистка
// NUL-байтов, та же подстановка timestamp, тот же вызов ядра.
type TCPListener struct {
	addr    string
	monitor service.MonitorService
	log     *zap.SugaredLogger
}

// NewTCPListener создает listener; addr в формате host:port
func NewTCPListener(addr string, monitor service.MonitorService, log *zap.SugaredLogger) *TCPListener {
	return &TCPListener{
		addr:    addr,
		monitor: monitor,
		log:     log,
	}
}

// Run слушает адрес до отмены контекста.
// Каждое соединение обслуживается в отдельной горутине.
func (l *TCPListener) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.addr, err)
	}

	l.log.Infow("tcp ingest listening", "addr", l.addr)

	// Закрытие listener'а будит Accept при отмене контекста
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				l.log.Warnw("tcp accept failed", "error", err)
				continue
			}
		}

		go l.handleConn(ctx, conn)
	}
}

// handleConn обслуживает одно соединение: строка - снапшот - ответ
func (l *TCPListener) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		if !scanner.Scan() {
			return
		}

		line := bytes.TrimSpace(bytes.ReplaceAll(scanner.Bytes(), []byte{0}, nil))
		if len(line) == 0 {
			continue
		}

		if err := l.process(line); err != nil {
			fmt.Fprintf(conn, "ERROR: %v\n", err)
			continue
		}
		fmt.Fprint(conn, "OK\n")
	}
}

// process декодирует и обрабатывает одну строку снапшота
func (l *TCPListener) process(line []byte) error {
	var snap models.Snapshot
	if err := json.Unmarshal(line, &snap); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if snap.Timestamp <= 0 {
		snap.Timestamp = time.Now().Unix()
	}

	_, err := l.monitor.ProcessSnapshot(&snap)
	return err
}
