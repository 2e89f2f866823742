package console

import (
	"testing"

	"asios/hal"
	"asios/system/proto"
)

func TestWrite(t *testing.T) {
	con := hal.NewMemConsole("")
	if n := Write(con, proto.Stdout, []byte("hello"), 3); n != 3 {
		t.Fatalf("Write() = %d, want 3", n)
	}
	if n := Write(con, proto.Stderr, []byte("!"), 10); n != 1 {
		t.Fatalf("Write(stderr) = %d, want 1", n)
	}
	if n := Write(con, proto.Stdin, []byte("x"), 1); n != proto.Fail {
		t.Fatalf("Write(stdin) = %d, want -1", n)
	}
	if n := Write(nil, proto.Stdout, []byte("x"), 1); n != proto.Fail {
		t.Fatalf("Write(nil console) = %d, want -1", n)
	}
	if got := con.Output(); got != "hel!" {
		t.Fatalf("console output %q", got)
	}
}

func TestReadReady(t *testing.T) {
	con := hal.NewMemConsole("abcdef")
	buf := make([]byte, 4)
	if n := ReadReady(con, proto.Stdin, buf, 10); n != 4 || string(buf) != "abcd" {
		t.Fatalf("ReadReady() = %d %q", n, buf)
	}
	if n := ReadReady(con, proto.Stdin, buf, 4); n != 2 || string(buf[:2]) != "ef" {
		t.Fatalf("ReadReady() = %d %q, want the remaining 2", n, buf[:n])
	}
	if n := ReadReady(con, proto.Stdin, buf, 4); n != 0 {
		t.Fatalf("ReadReady() on empty input = %d", n)
	}
	if n := ReadReady(con, proto.Stdout, buf, 4); n != proto.Fail {
		t.Fatalf("ReadReady(stdout) = %d, want -1", n)
	}
}

func TestIoctl(t *testing.T) {
	con := hal.NewMemConsole("xyz")
	out := make([]byte, 4)
	if r := Ioctl(con, proto.Stdin, proto.FIONREAD, out); r != proto.OK {
		t.Fatalf("Ioctl() = %d", r)
	}
	if got := proto.Int32(out); got != 3 {
		t.Fatalf("FIONREAD = %d, want 3", got)
	}
	if r := Ioctl(con, proto.Stdin, 1, out); r != proto.Fail {
		t.Fatalf("Ioctl(unknown) = %d, want -1", r)
	}
	if r := Ioctl(con, proto.Stdin, proto.FIONREAD, out[:2]); r != proto.Fail {
		t.Fatalf("Ioctl(short buffer) = %d, want -1", r)
	}
}
