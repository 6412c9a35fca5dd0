package render

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/devicelab-dev/suite-reporter/pkg/output"
	"github.com/devicelab-dev/suite-reporter/pkg/report"
)

// DefaultNamespace is the XML prefix used when none is configured.
const DefaultNamespace = "report"

// NamespaceURI identifies the call/return report vocabulary.
const NamespaceURI = "urn:suite-reporter:callreturn"

// XML renders the tree as nested call/return elements:
//
//	<report:return proc="report">
//	  <report:callto>
//	    <report:return proc="A">...</report:return>
//	  </report:callto>
//	  <report:error>true</report:error>
//	  <report:errormsg>ErrorInCallTo</report:errormsg>
//	</report:return>
//
// Every call is followed by the error flag and message of the called node.
// A test's return also carries its own flag and derived failure message.
type XML struct {
	Namespace string
}

// NewXML creates an XML renderer with the given prefix.
func NewXML(namespace string) XML {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return XML{Namespace: namespace}
}

// Name returns the format name.
func (XML) Name() string { return "xml" }

// Render writes report.xml.
func (x XML) Render(doc *Document) ([]output.File, error) {
	data, err := x.Marshal(doc.Root)
	if err != nil {
		return nil, err
	}
	return []output.File{{Name: "report.xml", Data: data}}, nil
}

// Marshal encodes the tree rooted at root.
func (x XML) Marshal(root *report.Node) ([]byte, error) {
	ns := x.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	w := &xmlWriter{enc: enc, ns: ns}

	w.start("return",
		xml.Attr{Name: xml.Name{Local: "xmlns:" + ns}, Value: NamespaceURI},
		xml.Attr{Name: xml.Name{Local: "proc"}, Value: report.Escape(root.Label)},
	)
	w.children(root)
	w.end("return")

	if w.err != nil {
		return nil, w.err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// xmlWriter keeps the first encoding error so the tree walk stays linear.
type xmlWriter struct {
	enc *xml.Encoder
	ns  string
	err error
}

func (w *xmlWriter) name(local string) xml.Name {
	return xml.Name{Local: w.ns + ":" + local}
}

func (w *xmlWriter) start(local string, attrs ...xml.Attr) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.StartElement{Name: w.name(local), Attr: attrs})
}

func (w *xmlWriter) end(local string) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.EndElement{Name: w.name(local)})
}

func (w *xmlWriter) text(local, value string) {
	w.start(local)
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.CharData(report.Escape(value)))
	}
	w.end(local)
}

// status writes the error flag and message pair.
func (w *xmlWriter) status(failed bool, msg string) {
	w.text("error", strconv.FormatBool(failed))
	w.text("errormsg", msg)
}

func (w *xmlWriter) children(n *report.Node) {
	for _, c := range n.Children {
		w.start("callto")
		w.start("return", xml.Attr{Name: xml.Name{Local: "proc"}, Value: report.Escape(c.Label)})
		if c.IsTest() {
			w.status(c.Failed, c.FailureMessage)
		} else {
			w.children(c)
		}
		w.end("return")
		w.end("callto")

		outer := c.FailureMessage
		if c.IsTest() && c.Failed {
			outer = report.ErrorInCallTo
		}
		w.status(c.Failed, outer)
	}
}
