package proto

import "arenacore/internal/wire"

// EncodeClockSyncProbe writes the client->server probe: client_send_time:f64.
func EncodeClockSyncProbe(w *wire.Writer, clientSendTime float64) {
	w.WriteF64(clientSendTime)
}

func DecodeClockSyncProbe(r *wire.Reader) (clientSendTime float64) {
	return r.ReadF64()
}

// EncodeClockSyncResponse writes the server->client echo:
// client_send_time:f64 | server_time:f64.
func EncodeClockSyncResponse(w *wire.Writer, clientSendTime, serverTime float64) {
	w.WriteF64(clientSendTime)
	w.WriteF64(serverTime)
}

func DecodeClockSyncResponse(r *wire.Reader) (clientSendTime, serverTime float64) {
	return r.ReadF64(), r.ReadF64()
}

// EncodeMapLoaded writes MapLoaded: map_name_hash:u32.
func EncodeMapLoaded(w *wire.Writer, hash uint32) { w.WriteU32(hash) }

func DecodeMapLoaded(r *wire.Reader) uint32 { return r.ReadU32() }

// EncodeMapConfirmed writes MapConfirmed: server_tick:u32.
func EncodeMapConfirmed(w *wire.Writer, serverTick uint32) { w.WriteU32(serverTick) }

func DecodeMapConfirmed(r *wire.Reader) uint32 { return r.ReadU32() }

// HashMapName computes the 32-bit FNV-1a hash of a map name, used by the
// map-ready handshake (MapLoaded carries this value; a server whose own
// stored hash is 0 accepts any value).
func HashMapName(name string) uint32 {
	const offsetBasis = 2166136261
	const prime = 16777619
	h := uint32(offsetBasis)
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= prime
	}
	return h
}
