// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package zone

import (
	"strings"
	"testing"

	"github.com/tochusc/authdns/wire"
)

const testZoneFile = `
$ORIGIN example.com.
$TTL 3600
@       IN  SOA ns1.example.com. hostmaster.example.com. 2024010100 3600 900 604800 86400
@       IN  NS  ns1.example.com.
ns1     IN  A   192.0.2.53
www     300 IN A 192.0.2.10
        IN  TXT "hello world"
mail    IN  MX  10 ns1.example.com.
`

func TestParseZoneFile(t *testing.T) {
	apex := mustName(t, "example.com.")
	z, err := ParseZoneFile(strings.NewReader(testZoneFile), apex)
	if err != nil {
		t.Fatalf("ParseZoneFile: %v", err)
	}

	soa, ok := z.SOA()
	if !ok {
		t.Fatal("expected SOA at apex")
	}
	soaData, ok := soa.Data[0].(*wire.RDATASOA)
	if !ok || soaData.Serial != 2024010100 {
		t.Errorf("SOA serial = %+v, want 2024010100", soaData)
	}

	wwwNode, ok := z.Lookup(mustName(t, "www.example.com."))
	if !ok {
		t.Fatal("expected www.example.com. node")
	}
	a, ok := wwwNode.Types[wire.TypeA]
	if !ok || a.TTL != 300 {
		t.Errorf("www A TTL = %v, want 300 (explicit TTL overriding $TTL)", a)
	}

	txtNode, ok := z.Lookup(mustName(t, "www.example.com."))
	if !ok {
		t.Fatal("expected TXT to inherit the previous owner")
	}
	txt, ok := txtNode.Types[wire.TypeTXT]
	if !ok {
		t.Fatal("expected TXT record at www.example.com. (owner inherited from prior line)")
	}
	if string(txt.Data[0].(*wire.RDATATXT).Strings[0]) != "hello world" {
		t.Errorf("TXT value = %q, want %q", txt.Data[0], "hello world")
	}

	mailNode, ok := z.Lookup(mustName(t, "mail.example.com."))
	if !ok {
		t.Fatal("expected mail.example.com. node")
	}
	mx, ok := mailNode.Types[wire.TypeMX]
	if !ok {
		t.Fatal("expected MX record")
	}
	if mx.Data[0].(*wire.RDATAMX).Preference != 10 {
		t.Errorf("MX preference = %v, want 10", mx.Data[0])
	}
}

func TestParseZoneFileRejectsUnknownType(t *testing.T) {
	apex := mustName(t, "example.com.")
	_, err := ParseZoneFile(strings.NewReader("@ IN BOGUS foo\n"), apex)
	if err == nil {
		t.Fatal("expected error for an unknown record type")
	}
}

func TestParseZoneFileHandlesComments(t *testing.T) {
	apex := mustName(t, "example.com.")
	doc := "; a full-line comment\n@ IN A 192.0.2.1 ; trailing comment\n"
	z, err := ParseZoneFile(strings.NewReader(doc), apex)
	if err != nil {
		t.Fatalf("ParseZoneFile: %v", err)
	}
	n, ok := z.Lookup(apex)
	if !ok {
		t.Fatal("expected apex node")
	}
	if _, ok := n.Types[wire.TypeA]; !ok {
		t.Error("expected A record at apex despite trailing comment")
	}
}
