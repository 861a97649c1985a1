package keyfile

import (
	"bytes"
	"fmt"

	"github.com/lightningnetwork/lnd/tlv"
)

const (
	typeVersion    tlv.Type = 0
	typeCipher     tlv.Type = 1
	typeScryptN    tlv.Type = 2
	typeScryptR    tlv.Type = 3
	typeScryptP    tlv.Type = 4
	typeSalt       tlv.Type = 5
	typeIV         tlv.Type = 6
	typeCipherText tlv.Type = 7
	typeMAC        tlv.Type = 8
)

// envelope is the decoded form of a sealed key file. On the wire it is a
// TLV stream with one record per field, the MAC record last. The MAC covers
// the encoding of every other record.
type envelope struct {
	version    uint8
	cipherName []byte
	n          uint64
	r          uint32
	p          uint32
	salt       [saltLen]byte
	iv         []byte
	ciphertext []byte
	mac        [macLen]byte
}

// records returns the TLV records of the envelope in type order.
func (e *envelope) records(withMAC bool) []tlv.Record {
	records := []tlv.Record{
		tlv.MakePrimitiveRecord(typeVersion, &e.version),
		tlv.MakePrimitiveRecord(typeCipher, &e.cipherName),
		tlv.MakePrimitiveRecord(typeScryptN, &e.n),
		tlv.MakePrimitiveRecord(typeScryptR, &e.r),
		tlv.MakePrimitiveRecord(typeScryptP, &e.p),
		tlv.MakePrimitiveRecord(typeSalt, &e.salt),
		tlv.MakePrimitiveRecord(typeIV, &e.iv),
		tlv.MakePrimitiveRecord(typeCipherText, &e.ciphertext),
	}
	if withMAC {
		records = append(
			records, tlv.MakePrimitiveRecord(typeMAC, &e.mac),
		)
	}

	return records
}

// encode serializes the envelope, optionally leaving out the MAC so the
// result can be authenticated.
func (e *envelope) encode(withMAC bool) ([]byte, error) {
	stream, err := tlv.NewStream(e.records(withMAC)...)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if err := stream.Encode(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// decodeEnvelope parses blob. Every record must be present.
func decodeEnvelope(blob []byte) (*envelope, error) {
	e := &envelope{}
	records := e.records(true)

	stream, err := tlv.NewStream(records...)
	if err != nil {
		return nil, err
	}

	parsed, err := stream.DecodeWithParsedTypes(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	for _, r := range records {
		if _, ok := parsed[r.Type()]; !ok {
			return nil, fmt.Errorf("%w: missing record %d",
				ErrMalformed, r.Type())
		}
	}

	return e, nil
}
