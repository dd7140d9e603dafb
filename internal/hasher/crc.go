package hasher

import "hash"

// crc16 implements the CRC-16/ARC checksum (reflected polynomial 0x8005,
// zero initial value) as a hash.Hash.
type crc16 struct {
	sum uint16
}

func newCRC16() hash.Hash {
	return &crc16{}
}

func (c *crc16) Write(p []byte) (int, error) {
	crc := c.sum
	for _, b := range p {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	c.sum = crc
	return len(p), nil
}

func (c *crc16) Sum(in []byte) []byte {
	return append(in, byte(c.sum>>8), byte(c.sum))
}

func (c *crc16) Reset()         { c.sum = 0 }
func (c *crc16) Size() int      { return 2 }
func (c *crc16) BlockSize() int { return 1 }

// crc8 implements the CRC-8 checksum with polynomial 0x07 (as used by
// SMBus) as a hash.Hash.
type crc8 struct {
	sum uint8
}

func newCRC8() hash.Hash {
	return &crc8{}
}

func (c *crc8) Write(p []byte) (int, error) {
	crc := c.sum
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	c.sum = crc
	return len(p), nil
}

func (c *crc8) Sum(in []byte) []byte {
	return append(in, c.sum)
}

func (c *crc8) Reset()         { c.sum = 0 }
func (c *crc8) Size() int      { return 1 }
func (c *crc8) BlockSize() int { return 1 }
