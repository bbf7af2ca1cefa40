package proto

import "arenacore/internal/wire"

// ConnectRejectReason is the single byte payload of ConnectRejected.
type ConnectRejectReason uint8

// ReasonServerFull is the only defined rejection reason.
const ReasonServerFull ConnectRejectReason = 1

// ConnectRequest: client_challenge:u32.
func EncodeConnectRequest(w *wire.Writer, clientChallenge uint32) {
	w.WriteU32(clientChallenge)
}

func DecodeConnectRequest(r *wire.Reader) (clientChallenge uint32) {
	return r.ReadU32()
}

// ConnectChallenge: server_challenge:u32 | client_challenge:u32.
func EncodeConnectChallenge(w *wire.Writer, serverChallenge, clientChallenge uint32) {
	w.WriteU32(serverChallenge)
	w.WriteU32(clientChallenge)
}

func DecodeConnectChallenge(r *wire.Reader) (serverChallenge, clientChallenge uint32) {
	return r.ReadU32(), r.ReadU32()
}

// ConnectResponse: server_challenge:u32 | client_challenge:u32.
func EncodeConnectResponse(w *wire.Writer, serverChallenge, clientChallenge uint32) {
	w.WriteU32(serverChallenge)
	w.WriteU32(clientChallenge)
}

func DecodeConnectResponse(r *wire.Reader) (serverChallenge, clientChallenge uint32) {
	return r.ReadU32(), r.ReadU32()
}

// ConnectAccepted: client_id:u8 | server_tick:u32 | map_name_len:u8 |
// map_name:bytes[map_name_len] (len <= 127).
func EncodeConnectAccepted(w *wire.Writer, clientID uint8, serverTick uint32, mapName string) {
	if len(mapName) > 127 {
		mapName = mapName[:127]
	}
	w.WriteU8(clientID)
	w.WriteU32(serverTick)
	w.WriteU8(uint8(len(mapName)))
	w.WriteBytes([]byte(mapName))
}

func DecodeConnectAccepted(r *wire.Reader) (clientID uint8, serverTick uint32, mapName string) {
	clientID = r.ReadU8()
	serverTick = r.ReadU32()
	n := int(r.ReadU8())
	mapName = string(r.ReadBytes(n))
	return
}

// ConnectRejected: reason:u8.
func EncodeConnectRejected(w *wire.Writer, reason ConnectRejectReason) {
	w.WriteU8(uint8(reason))
}

func DecodeConnectRejected(r *wire.Reader) ConnectRejectReason {
	return ConnectRejectReason(r.ReadU8())
}
