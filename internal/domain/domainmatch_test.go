package domain

import "testing"

func TestDomainAuthorizedAgencyBypassesEverything(t *testing.T) {
	domains := []string{"example.com", "evil.com", "anything.at.all", ""}
	for _, d := range domains {
		if !DomainAuthorized(d, nil, TierAgency) {
			t.Fatalf("agency tier must authorize %q with an empty allow-list", d)
		}
	}
}

func TestDomainAuthorizedLocalhost(t *testing.T) {
	for _, tier := range []Tier{TierFree, TierBasic, TierPro} {
		if !DomainAuthorized("localhost", []string{"example.com"}, tier) {
			t.Fatalf("localhost must be authorized for tier %s", tier)
		}
	}
}

func TestDomainAuthorizedMatching(t *testing.T) {
	cases := []struct {
		name    string
		domain  string
		allowed []string
		want    bool
	}{
		{"exact", "example.com", []string{"example.com"}, true},
		{"subdomain", "api.example.com", []string{"example.com"}, true},
		{"deep subdomain", "a.b.example.com", []string{"example.com"}, true},
		{"substring is not a match", "evilexample.com", []string{"example.com"}, false},
		{"suffix without label boundary", "notexample.com", []string{"example.com"}, false},
		{"different domain", "evil.com", []string{"example.com"}, false},
		{"second entry matches", "shop.io", []string{"example.com", "shop.io"}, true},
		{"entry pasted as url", "api.example.com", []string{"https://www.example.com/"}, true},
		{"entry with port", "example.com", []string{"example.com:8080"}, true},
		{"empty allow-list", "example.com", nil, false},
		{"empty domain", "", []string{"example.com"}, false},
		{"unparseable entry skipped", "example.com", []string{"   ", "example.com"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, tier := range []Tier{TierFree, TierBasic, TierPro} {
				if got := DomainAuthorized(tc.domain, tc.allowed, tier); got != tc.want {
					t.Fatalf("DomainAuthorized(%q, %v, %s) = %v, want %v",
						tc.domain, tc.allowed, tier, got, tc.want)
				}
			}
		})
	}
}

func TestDomainAuthorizedUnknownTierIsNotAgency(t *testing.T) {
	if DomainAuthorized("evil.com", []string{"example.com"}, Tier("enterprise")) {
		t.Fatal("unknown tier must not get the agency bypass")
	}
}

func TestValidWidgetKey(t *testing.T) {
	valid := "a1B2c3D4e5F6g7H8i9J0k1L2m3N4o5P6"
	if len(valid) != 32 {
		t.Fatalf("fixture key length %d", len(valid))
	}
	if !ValidWidgetKey(valid) {
		t.Fatal("expected fixture key to validate")
	}
	bad := []string{
		"",
		"short",
		valid + "x",
		"a1B2c3D4e5F6g7H8i9J0k1L2m3N4o5P!",
		"a1B2c3D4e5F6g7H8i9J0k1L2m3N4o5 6",
	}
	for _, key := range bad {
		if ValidWidgetKey(key) {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}
