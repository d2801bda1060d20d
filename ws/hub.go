// Package ws menyiarkan event realtime (antrian klinik, transaksi kasir, tagihan)
// ke semua klien websocket yang terhubung.
package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	EventTransaksiBaru   = "transaksi_baru"
	EventAntrianUpdate   = "antrian_update"
	EventTagihanDibayar  = "tagihan_dibayar"
	EventTagihanDibuat   = "tagihan_dibuat"
	EventStokMenipis     = "stok_menipis"
	broadcastBufferSize  = 256
	clientSendBufferSize = 64
)

// Event adalah pesan yang dikirim ke klien.
type Event struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data"`
	Waktu time.Time   `json:"waktu"`
}

// Client mewakili satu koneksi websocket.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
	// IDPengguna pemilik koneksi, hanya untuk log.
	IDPengguna int
}

// Hub mengelola semua koneksi client.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	// done ditutup saat Run berhenti agar register/unregister tidak menunggu selamanya
	done   chan struct{}
	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run memproses registrasi dan broadcast sampai ctx dibatalkan, lalu menutup semua koneksi.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug().Int("id_pengguna", client.IDPengguna).Int("clients", len(h.clients)).Msg("Client registered")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug().Int("id_pengguna", client.IDPengguna).Msg("Client unregistered")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// klien lambat diputus
					close(client.Send)
					delete(h.clients, client)
					h.logger.Warn().Int("id_pengguna", client.IDPengguna).Msg("Client terlalu lambat, koneksi diputus")
				}
			}
		}
	}
}

// add mendaftarkan client; false bila hub sudah berhenti.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish mengantrekan event tanpa pernah memblokir pemanggil. Jika buffer penuh event
// dibuang dan dicatat. Aman dipanggil pada Hub nil.
func (h *Hub) Publish(eventType string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Waktu: time.Now()})
	if err != nil {
		h.logger.Error().Err(err).Str("type", eventType).Msg("Gagal encode event")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn().Str("type", eventType).Msg("Buffer broadcast penuh, event dibuang")
	}
}
