// Command arenad runs a server session and a client session in one
// process, connected over the loopback transport, and once per second logs
// interpolation diagnostics and the local player's state from the latest
// decoded snapshot. It exists to exercise the netcode core
// end-to-end without a real network peer.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"arenacore/internal/client"
	"arenacore/internal/gameplay"
	"arenacore/internal/obs"
	"arenacore/internal/predict"
	"arenacore/internal/server"
)

const (
	version  = "1.0.0"
	mapName  = "arena_one"
	tickRate = server.TickRate
)

func main() {
	log := obs.NewLogger("arenad")
	log.WithField("version", version).Info("arena core loopback demo starting")

	world := gameplay.NewWorld()
	srv, err := server.NewSession(server.Config{Port: 0, MaxClientSlots: 4}, world, log.WithField("side", "server"))
	if err != nil {
		log.WithError(err).Fatal("failed to start server session")
	}
	srv.SetMap(mapName)
	log.WithField("map", mapName).Info("server session initialized")

	clientID, clientTransport, err := srv.ConnectLoopback(obs.NewMetrics("arenad_client"))
	if err != nil {
		log.WithError(err).Fatal("failed to connect loopback client")
	}

	cl, err := client.NewSession(client.Config{}, log.WithField("side", "client"))
	if err != nil {
		log.WithError(err).Fatal("failed to start client session")
	}
	cl.ConnectLocal(clientTransport, clientID, srv.ServerTick())
	log.WithField("client_id", clientID).Info("loopback client connected")

	srv.SetEntity(clientID, gameplay.Entity{Health: 100, Armor: 0, Weapon: 1, Ammo: 30})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	tickInterval := time.Duration(float64(time.Second) / tickRate)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	statusTicker := time.NewTicker(time.Second)
	defer statusTicker.Stop()

	start := time.Now()

	for {
		select {
		case sig := <-sigCh:
			log.WithField("signal", sig).Warn("received signal")
			log.Info("shutting down gracefully...")
			cl.Disconnect()
			time.Sleep(100 * time.Millisecond)
			log.Info("arenad stopped")
			return

		case <-ticker.C:
			cl.SendInput(predict.UserCmd{
				Forward: 0.5,
				Buttons: 0,
			})

			srv.Tick()
			cl.Tick()

		case <-statusTicker.C:
			renderTime := time.Since(start).Seconds() - client.InterpDelayDefault
			_, diag := cl.Interpolate(renderTime)
			var player client.InterpEntity
			hasPlayer := cl.ServerPlayerState(&player)

			log.WithField("server_tick", srv.ServerTick()).
				WithField("client_state", cl.State().String()).
				WithField("rtt_ms", cl.RTTMillis()).
				WithField("interp_has_result", diag.HasResult).
				Info("tick status")

			if hasPlayer {
				log.WithField("pos_x", player.PosX).
					WithField("pos_y", player.PosY).
					WithField("health", player.Health).
					Info("player state")
			}
		}
	}
}
