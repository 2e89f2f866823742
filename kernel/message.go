package kernel

import "encoding/binary"

// MessageSize is the fixed size of every IPC message.
const MessageSize = 32

// MessageWords is the number of 32-bit payload words in a message.
const MessageWords = (MessageSize - 4) / 4

// Message is a fixed-size IPC buffer.
//
// Layout:
//   - byte 0: request code
//   - bytes 1..3: spare
//   - bytes 4..31: seven little-endian 32-bit words
//
// Storage is always owned by a task; the kernel only copies between buffers.
type Message [MessageSize]byte

// Req returns the request code.
func (m *Message) Req() uint8 { return m[0] }

// SetReq sets the request code.
func (m *Message) SetReq(req uint8) { m[0] = req }

// Word returns payload word i.
func (m *Message) Word(i int) int32 {
	return int32(binary.LittleEndian.Uint32(m[4+4*i : 8+4*i]))
}

// SetWord sets payload word i.
func (m *Message) SetWord(i int, v int32) {
	binary.LittleEndian.PutUint32(m[4+4*i:8+4*i], uint32(v))
}

// Payload returns the payload area (everything after the header).
func (m *Message) Payload() []byte { return m[4:] }
