// =============================================================================
// internal/dns/codec.go - DNS wire-format query builder and response parser
// =============================================================================
package dns

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
)

// Wire-format constants for the fraction of the protocol this tool speaks:
// one recursive A/IN question per query.
const (
	headerLen     = 12
	flagsStandard = 0x0100 // standard query, recursion desired
	maxLabelLen   = 63
	maxNameLen    = 255
	pointerMask   = 0xC0 // top two bits of a length byte mark a compression pointer
)

// Encoding errors.
var (
	ErrEmptyDomain  = errors.New("empty domain name")
	ErrEmptyLabel   = errors.New("domain contains an empty label")
	ErrLabelTooLong = errors.New("domain label exceeds 63 bytes")
	ErrNameTooLong  = errors.New("encoded domain name exceeds 255 bytes")
)

// errTruncated is internal to the decoder; it surfaces as a parse-error status.
var errTruncated = errors.New("truncated message")

// Query is a packed DNS query together with the transaction id it was built
// with, kept so the transport can match the reply against it.
type Query struct {
	ID   uint16
	Wire []byte
}

// Parsed is the decoded portion of a DNS response this tool cares about:
// the first A/IN answer, if any, and the overall status. IP is non-empty
// if and only if Status is NOERROR.
type Parsed struct {
	IP     string
	TTL    uint32
	Status Status
}

// BuildQuery packs a standard recursive A/IN query for domain with a
// random transaction id.
func BuildQuery(domain string) (*Query, error) {
	name, err := encodeName(domain)
	if err != nil {
		return nil, err
	}

	id := dns.Id()
	wire := make([]byte, headerLen, headerLen+len(name)+4)
	binary.BigEndian.PutUint16(wire[0:2], id)
	binary.BigEndian.PutUint16(wire[2:4], flagsStandard)
	binary.BigEndian.PutUint16(wire[4:6], 1) // QDCOUNT

	wire = append(wire, name...)
	wire = binary.BigEndian.AppendUint16(wire, dns.TypeA)
	wire = binary.BigEndian.AppendUint16(wire, dns.ClassINET)
	return &Query{ID: id, Wire: wire}, nil
}

// ValidateDomain checks the label and total length limits without packing.
func ValidateDomain(domain string) error {
	_, err := encodeName(domain)
	return err
}

// encodeName packs a domain into length-prefixed labels terminated by the
// root label.
func encodeName(domain string) ([]byte, error) {
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return nil, ErrEmptyDomain
	}

	name := make([]byte, 0, len(domain)+2)
	for _, label := range strings.Split(domain, ".") {
		if len(label) == 0 {
			return nil, ErrEmptyLabel
		}
		if len(label) > maxLabelLen {
			return nil, ErrLabelTooLong
		}
		name = append(name, byte(len(label)))
		name = append(name, label...)
	}
	name = append(name, 0)
	if len(name) > maxNameLen {
		return nil, ErrNameTooLong
	}
	return name, nil
}

// ResponseID extracts the transaction id from a raw response.
func ResponseID(data []byte) (uint16, error) {
	if len(data) < headerLen {
		return 0, errTruncated
	}
	return binary.BigEndian.Uint16(data[0:2]), nil
}

// QuestionName decodes the first question's name from a raw message as a
// dot-separated domain without the trailing root dot.
func QuestionName(data []byte) (string, error) {
	if len(data) < headerLen {
		return "", errTruncated
	}
	var labels []string
	off := headerLen
	for {
		if off >= len(data) {
			return "", errTruncated
		}
		length := int(data[off])
		if length == 0 {
			break
		}
		if data[off]&pointerMask == pointerMask {
			return "", errors.New("compressed question name")
		}
		if off+1+length > len(data) {
			return "", errTruncated
		}
		labels = append(labels, string(data[off+1:off+1+length]))
		off += 1 + length
	}
	return strings.Join(labels, "."), nil
}

// ParseResponse decodes a raw DNS response. The header RCODE is mapped
// through the fixed status table, the question section is skipped, and the
// answer section is scanned for the first A record in the Internet class.
// Malformed input never reads past the buffer; it yields a parse-error
// status instead.
func ParseResponse(data []byte) Parsed {
	if len(data) < headerLen {
		return Parsed{Status: StatusInvalidResponse}
	}

	flags := binary.BigEndian.Uint16(data[2:4])
	qdcount := int(binary.BigEndian.Uint16(data[4:6]))
	ancount := int(binary.BigEndian.Uint16(data[6:8]))
	status := rcodeStatus(int(flags & 0x000F))

	off := headerLen
	for i := 0; i < qdcount; i++ {
		next, err := skipName(data, off)
		if err != nil {
			return Parsed{Status: StatusParseError}
		}
		off = next + 4 // QTYPE + QCLASS
		if off > len(data) {
			return Parsed{Status: StatusParseError}
		}
	}

	for i := 0; i < ancount; i++ {
		next, err := skipName(data, off)
		if err != nil {
			return Parsed{Status: StatusParseError}
		}
		off = next
		if off+10 > len(data) {
			return Parsed{Status: StatusParseError}
		}
		atype := binary.BigEndian.Uint16(data[off : off+2])
		aclass := binary.BigEndian.Uint16(data[off+2 : off+4])
		ttl := binary.BigEndian.Uint32(data[off+4 : off+8])
		rdlength := int(binary.BigEndian.Uint16(data[off+8 : off+10]))
		off += 10
		if off+rdlength > len(data) {
			return Parsed{Status: StatusParseError}
		}
		rdata := data[off : off+rdlength]
		off += rdlength

		// First A/IN answer wins; later answers are ignored.
		if atype == dns.TypeA && aclass == dns.ClassINET && rdlength == net.IPv4len {
			if !status.IsSuccess() {
				return Parsed{Status: status}
			}
			return Parsed{IP: net.IP(rdata).String(), TTL: ttl, Status: status}
		}
	}

	if !status.IsSuccess() {
		return Parsed{Status: status}
	}
	return Parsed{Status: StatusNoAnswer}
}

// skipName advances past a name at off, which is either a literal label
// sequence or a 2-byte compression pointer. Pointers are consumed without
// being dereferenced since only the fixed fields that follow are needed.
func skipName(data []byte, off int) (int, error) {
	for {
		if off >= len(data) {
			return 0, errTruncated
		}
		length := data[off]
		switch {
		case length == 0:
			return off + 1, nil
		case length&pointerMask == pointerMask:
			if off+2 > len(data) {
				return 0, errTruncated
			}
			return off + 2, nil
		default:
			off += 1 + int(length)
		}
	}
}

// rcodeStatuses is the fixed RCODE table.
var rcodeStatuses = map[int]Status{
	dns.RcodeSuccess:        StatusNoError,
	dns.RcodeFormatError:    StatusFormErr,
	dns.RcodeServerFailure:  StatusServFail,
	dns.RcodeNameError:      StatusNxDomain,
	dns.RcodeNotImplemented: StatusNotImp,
	dns.RcodeRefused:        StatusRefused,
}

func rcodeStatus(rcode int) Status {
	if s, ok := rcodeStatuses[rcode]; ok {
		return s
	}
	return Status(fmt.Sprintf("RCODE_%d", rcode))
}
