package protocol

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b, err := Encode(MsgJoin, Join{RoomCode: "ABCD", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.T != MsgJoin {
		t.Fatalf("envelope type = %q, want %q", env.T, MsgJoin)
	}
	j, err := DecodePayload[Join](env)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if j.RoomCode != "ABCD" || j.DisplayName != "Alice" {
		t.Fatalf("payload mismatch: %+v", j)
	}
	if j.Theme != nil {
		t.Fatalf("omitted theme should decode to nil")
	}
}

func TestEncodeRejectsEmptyType(t *testing.T) {
	if _, err := Encode("", Join{}); err == nil {
		t.Fatalf("expected error for empty envelope type")
	}
}

func TestDecodeEnvelopeRejectsMalformed(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("not json"),
		[]byte(`{"p":{}}`), // 缺类型标签
	}
	for _, c := range cases {
		if _, err := DecodeEnvelope(c); err == nil {
			t.Fatalf("expected decode error for %q", c)
		}
	}
}

func TestDecodePayloadRejectsMismatch(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"t":"input","p":{"targetAngle":"sideways"}}`))
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	// 类型不符的载荷在解码这一步失败，不会把未定义字段带进物理层
	if _, err := DecodePayload[Input](env); err == nil {
		t.Fatalf("expected payload decode error")
	}

	env, _ = DecodeEnvelope([]byte(`{"t":"respawn"}`))
	if _, err := DecodePayload[Respawn](env); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestInputPayloadFields(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"t":"input","p":{"targetAngle":1.5,"isBoosting":true,"seq":7}}`))
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	in, err := DecodePayload[Input](env)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if in.TargetAngle != 1.5 || !in.IsBoosting || in.Seq != 7 {
		t.Fatalf("input payload mismatch: %+v", in)
	}
}
