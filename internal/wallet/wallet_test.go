package wallet

import (
	"sync"
	"testing"
)

func TestDebitCredit(t *testing.T) {
	w := New("tester", 100, 0, 0)
	if !w.Debit(40) {
		t.Fatal("debit within balance should succeed")
	}
	if w.Balance() != 60 {
		t.Errorf("balance = %d, want 60", w.Balance())
	}
	w.Credit(25)
	if w.Balance() != 85 {
		t.Errorf("balance = %d, want 85", w.Balance())
	}
}

func TestDebitRejections(t *testing.T) {
	w := New("tester", 50, 0, 0)
	if w.Debit(51) {
		t.Error("overdraft debit should fail")
	}
	if w.Debit(0) {
		t.Error("zero debit should fail")
	}
	if w.Debit(-10) {
		t.Error("negative debit should fail")
	}
	if w.Balance() != 50 {
		t.Errorf("balance = %d, failed debits must not change it", w.Balance())
	}
	// Exact balance is spendable.
	if !w.Debit(50) || w.Balance() != 0 {
		t.Error("debiting the full balance should succeed")
	}
}

func TestCreditIgnoresNonPositive(t *testing.T) {
	w := New("tester", 10, 0, 0)
	w.Credit(0)
	w.Credit(-5)
	if w.Balance() != 10 {
		t.Errorf("balance = %d, non-positive credits must be ignored", w.Balance())
	}
}

func TestSnapshotAndCounters(t *testing.T) {
	w := New("tester", 100, 3, 1)
	w.AddGamesPlayed(2)
	w.AddWin()
	points, played, wins := w.Snapshot()
	if points != 100 || played != 5 || wins != 2 {
		t.Errorf("snapshot = %d/%d/%d, want 100/5/2", points, played, wins)
	}
	if w.Name() != "tester" {
		t.Errorf("name = %q", w.Name())
	}
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	w := New("tester", 1000, 0, 0)
	var wg sync.WaitGroup
	granted := make(chan int64, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.Debit(10) {
				granted <- 10
			}
		}()
	}
	wg.Wait()
	close(granted)

	var total int64
	for amt := range granted {
		total += amt
	}
	if total != 1000 {
		t.Errorf("granted %d points from a 1000 balance", total)
	}
	if w.Balance() != 0 {
		t.Errorf("balance = %d, want 0", w.Balance())
	}
}
