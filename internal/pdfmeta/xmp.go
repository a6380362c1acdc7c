package pdfmeta

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/docintegrity/pdf-forensics-api/internal/dates"
)

// XMP dates appear either as XML elements (<xmp:CreateDate>...</...>)
// or attributes (xmp:CreateDate="..."), depending on the producer.
var (
	xmpCreateRe   = xmpDateRe("CreateDate")
	xmpModifyRe   = xmpDateRe("ModifyDate")
	xmpMetadataRe = xmpDateRe("MetadataDate")
)

func xmpDateRe(field string) *regexp.Regexp {
	return regexp.MustCompile(`xmp:` + field + `(?:="([^"]+)"|\s*>\s*([^<]+?)\s*<)`)
}

type xmpDates struct {
	create   *time.Time
	modify   *time.Time
	metadata *time.Time
}

// readXMPDates pulls the three cross-validation dates out of the
// document's XMP packet, if one exists. A document without an XMP
// stream yields empty dates and no error.
func readXMPDates(r *pdf.Reader) (out xmpDates, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("xmp stream unreadable: %v", rec)
		}
	}()

	md := r.Trailer().Key("Root").Key("Metadata")
	if md.Kind() != pdf.Stream {
		return out, nil
	}

	rd := md.Reader()
	defer rd.Close()

	packet, err := io.ReadAll(rd)
	if err != nil {
		return out, fmt.Errorf("read xmp stream: %w", err)
	}

	out.create = matchXMPDate(xmpCreateRe, packet)
	out.modify = matchXMPDate(xmpModifyRe, packet)
	out.metadata = matchXMPDate(xmpMetadataRe, packet)
	return out, nil
}

func matchXMPDate(re *regexp.Regexp, packet []byte) *time.Time {
	m := re.FindSubmatch(packet)
	if m == nil {
		return nil
	}
	raw := string(m[1])
	if raw == "" {
		raw = string(m[2])
	}
	return dates.ParseISO(raw)
}
