package pso

import "fmt"

const (
	// TblParticles is the name of the sql database table that contains
	// positions and values for particles for each iteration.
	TblParticles = "swarmparticles"
	// TblBest is the name of the sql database table that contains the
	// best position for the entire swarm at each iteration.
	TblBest = "swarmbest"
)

func (s *Solver) initdb() error {
	if s.db == nil {
		return nil
	}

	q := "CREATE TABLE IF NOT EXISTS " + TblParticles + " (particle INTEGER, iter INTEGER, val REAL"
	q += s.xdbsql("define")
	q += ");"
	if _, err := s.db.Exec(q); err != nil {
		return err
	}

	q = "CREATE TABLE IF NOT EXISTS " + TblBest + " (iter INTEGER, val REAL"
	q += s.xdbsql("define")
	q += ");"
	_, err := s.db.Exec(q)
	return err
}

func (s *Solver) xdbsql(op string) string {
	q := ""
	for i := range s.lb {
		switch op {
		case "?":
			q += ",?"
		case "define":
			q += fmt.Sprintf(",x%v REAL", i)
		case "x":
			q += fmt.Sprintf(",x%v", i)
		default:
			panic("invalid db op " + op)
		}
	}
	return q
}

func pos2iface(pos []float64) []interface{} {
	iface := []interface{}{}
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

// recordIter writes each particle's current position/value and the
// swarm best to the database.  Recording is diagnostics only; nothing
// is ever read back during a run.
func (s *Solver) recordIter(iter int) {
	if s.db == nil {
		return
	}

	tx, err := s.db.Begin()
	panicif(err)
	defer tx.Commit()

	q := "INSERT INTO " + TblParticles + " (particle,iter,val" + s.xdbsql("x") + ") VALUES (?,?,?" + s.xdbsql("?") + ");"
	for _, p := range s.swarm {
		args := []interface{}{p.Id, iter, p.Val}
		args = append(args, pos2iface(p.Pos)...)
		_, err := tx.Exec(q, args...)
		panicif(err)
	}

	if s.best.Len() == 0 {
		return
	}
	q = "INSERT INTO " + TblBest + " (iter,val" + s.xdbsql("x") + ") VALUES (?,?" + s.xdbsql("?") + ");"
	args := []interface{}{iter, s.best.Val}
	args = append(args, pos2iface(s.best.Pos())...)
	_, err = tx.Exec(q, args...)
	panicif(err)
}

func panicif(err error) {
	if err != nil {
		panic(err.Error())
	}
}
