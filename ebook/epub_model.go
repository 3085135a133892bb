package ebook

import "encoding/xml"

const (
	opfNamespace = "http://www.idpf.org/2007/opf"
	dcNamespace  = "http://purl.org/dc/elements/1.1/"
	ncxNamespace = "http://www.daisy.org/z3986/2005/ncx/"

	mediaTypeXHTML = "application/xhtml+xml"
	mediaTypeNCX   = "application/x-dtbncx+xml"
	mediaTypeCSS   = "text/css"
	mediaTypeJPEG  = "image/jpeg"
)

type opfPackage struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
	Guide            *opfGuide   `xml:"guide,omitempty"`
}

type opfMetadata struct {
	XmlnsDC     string         `xml:"xmlns:dc,attr"`
	XmlnsOPF    string         `xml:"xmlns:opf,attr"`
	Title       string         `xml:"dc:title"`
	Creator     dcCreator      `xml:"dc:creator"`
	Subject     string         `xml:"dc:subject,omitempty"`
	Description string         `xml:"dc:description,omitempty"`
	Language    string         `xml:"dc:language"`
	Identifier  dcIdentifier   `xml:"dc:identifier"`
	Date        string         `xml:"dc:date,omitempty"`
	Metas       []opfMetaEntry `xml:"meta"`
}

type dcCreator struct {
	Value string `xml:",chardata"`
	Role  string `xml:"opf:role,attr,omitempty"`
}

type dcIdentifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
}

type opfMetaEntry struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type opfManifest struct {
	Items []manifestItem `xml:"item"`
}

type manifestItem struct {
	ID    string `xml:"id,attr"`
	Link  string `xml:"href,attr"`
	Media string `xml:"media-type,attr"`
}

type opfSpine struct {
	Toc   string      `xml:"toc,attr"`
	Items []spineItem `xml:"itemref"`
}

type spineItem struct {
	IDref string `xml:"idref,attr"`
}

type opfGuide struct {
	Items []guideItem `xml:"reference"`
}

type guideItem struct {
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
	Link  string `xml:"href,attr"`
}

type ncxDocument struct {
	XMLName  xml.Name  `xml:"ncx"`
	Xmlns    string    `xml:"xmlns,attr"`
	Version  string    `xml:"version,attr"`
	Head     ncxHead   `xml:"head"`
	DocTitle string    `xml:"docTitle>text"`
	NavMap   ncxNavMap `xml:"navMap"`
}

type ncxHead struct {
	Meta []ncxHeadMeta `xml:"meta"`
}

type ncxHeadMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxNavMap struct {
	Points []navPoint `xml:"navPoint"`
}

type navPoint struct {
	ID        string          `xml:"id,attr"`
	PlayOrder int             `xml:"playOrder,attr"`
	Label     string          `xml:"navLabel>text"`
	Content   navPointContent `xml:"content"`
}

type navPointContent struct {
	Src string `xml:"src,attr"`
}

// marshalXMLDocument renders v with the XML declaration and indentation.
func marshalXMLDocument(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
