package digits

import (
	"context"
	"errors"
	"testing"

	pierrors "github.com/mkoster/pibauhaus/pkg/errors"
)

// piReference1000 holds the first 1000 decimal digits of pi after the
// decimal point, in 50-digit lines.
const piReference1000 = "" +
	"14159265358979323846264338327950288419716939937510" +
	"58209749445923078164062862089986280348253421170679" +
	"82148086513282306647093844609550582231725359408128" +
	"48111745028410270193852110555964462294895493038196" +
	"44288109756659334461284756482337867831652712019091" +
	"45648566923460348610454326648213393607260249141273" +
	"72458700660631558817488152092096282925409171536436" +
	"78925903600113305305488204665213841469519415116094" +
	"33057270365759591953092186117381932611793105118548" +
	"07446237996274956735188575272489122793818301194912" +
	"98336733624406566430860213949463952247371907021798" +
	"60943702770539217176293176752384674818467669405132" +
	"00056812714526356082778577134275778960917363717872" +
	"14684409012249534301465495853710507922796892589235" +
	"42019956112129021960864034418159813629774771309960" +
	"51870721134999999837297804995105973173281609631859" +
	"50244594553469083026425223082533446850352619311881" +
	"71010003137838752886587533208381420617177669147303" +
	"59825349042875546873115956286388235378759375195778" +
	"18577805321712268066130019278766111959092164201989"

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"single digit", 1, "1"},
		{"first ten", 10, "1415926535"},
		{"first hundred", 100, piReference1000[:100]},
		{"first thousand", 1000, piReference1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Generate(ctx, tt.n)
			if err != nil {
				t.Fatalf("Generate(%d) error = %v", tt.n, err)
			}
			if s.Len() != tt.n {
				t.Errorf("Len() = %d, want %d", s.Len(), tt.n)
			}
			if got := s.String(); got != tt.want {
				t.Errorf("Generate(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestGenerateInvalidPrecision(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		n    int
	}{
		{"zero", 0},
		{"negative", -7},
		{"above maximum", pierrors.MaxPrecision + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(ctx, tt.n); err == nil {
				t.Errorf("Generate(%d) expected error, got nil", tt.n)
			}
		})
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, 5000)
	if err == nil {
		t.Fatal("Generate with canceled context expected error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error chain should contain context.Canceled, got %v", err)
	}
	if !pierrors.Is(err, pierrors.ErrCodeGeneration) {
		t.Errorf("error code = %v, want %v", pierrors.GetCode(err), pierrors.ErrCodeGeneration)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	ctx := context.Background()

	a, err := Generate(ctx, 250)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Generate(ctx, 250)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if a.String() != b.String() {
		t.Error("two generations of the same precision differ")
	}
}

// Longer prefixes must agree with shorter ones digit for digit.
func TestGeneratePrefixStability(t *testing.T) {
	ctx := context.Background()

	short, err := Generate(ctx, 40)
	if err != nil {
		t.Fatalf("short run: %v", err)
	}
	long, err := Generate(ctx, 400)
	if err != nil {
		t.Fatalf("long run: %v", err)
	}

	if long.Prefix(40) != short.String() {
		t.Errorf("prefix mismatch: %q vs %q", long.Prefix(40), short.String())
	}
}
