// Package server implements the multiplexed chat/game/file-transfer server.
//
// A Multiplexer owns every stateful component a connected session can
// touch: the username registry, the chat router, the RPS coordinator, the
// file-transfer broker, and the byte-relay. It runs two accept loops
// concurrently, one per listener:
//
//  1. The control-channel listener: each accepted connection becomes a
//     Session that exchanges line-delimited JSON frames (ENTER, BROADCAST_REQ,
//     RPS_START_REQ, FILE_TRANSFER_REQ, and so on) until it disconnects or is
//     evicted by its heartbeat.
//  2. The auxiliary relay listener: each accepted connection carries a raw
//     byte header naming the transfer UUID and the sender/receiver role,
//     then the file's bytes, rendezvoused with its counterpart by the relay.
//
// Both loops are joined by an errgroup so that either one failing, or the
// parent context being cancelled, brings the whole server down cleanly.
package server
