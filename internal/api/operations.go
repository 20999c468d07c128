package api

// Operation is one GraphQL document the client knows how to send
type Operation struct {
	Name     string
	Field    string
	Document string
	Mutation bool
	// Cached queries are served from the QueryCache while fresh
	Cached bool
	// Invalidates lists the query fields whose cached results a mutation makes stale
	Invalidates []string
	// FlushCache drops every cached result after the mutation succeeds
	FlushCache bool
}

const userFields = `
      id
      email
      firstname
      lastname
      role
      id_avatar
      avatar {
        id
        picture_avatar
      }`

const gpFields = `
      id_api_races
      season
      date
      time
      track {
        id_api_tracks
        country_name
        track_name
        picture_country
        picture_track
      }`

const piloteFields = `
        id_api_pilotes
        name
        picture
        name_acronym`

const betFields = `
      id
      points_p10
      points_dnf
      gp {` + gpFields + `
      }
      pilote_p10 {` + piloteFields + `
      }
      pilote_dnf {` + piloteFields + `
      }`

const leagueFields = `
      id
      name
      private
      shared_link
      active
      id_avatar
      avatar {
        id
        picture_avatar
      }`

var (
	opLoginUser = Operation{
		Name:  "LoginUser",
		Field: "loginUser",
		Document: `mutation LoginUser($email: String!, $password: String!) {
  loginUser(email: $email, password: $password) {
    token
    user {` + userFields + `
    }
  }
}`,
		Mutation:   true,
		FlushCache: true,
	}

	opCreateUser = Operation{
		Name:  "CreateUser",
		Field: "createUser",
		Document: `mutation CreateUser($email: String!, $firstname: String!, $lastname: String!, $password: String!) {
  createUser(email: $email, firstname: $firstname, lastname: $lastname, password: $password) {` + userFields + `
  }
}`,
		Mutation: true,
	}

	opGetMe = Operation{
		Name:  "GetMe",
		Field: "getMe",
		Document: `query GetMe {
  getMe {` + userFields + `
  }
}`,
		Cached: true,
	}

	opUpdateUser = Operation{
		Name:  "UpdateUser",
		Field: "updateUser",
		Document: `mutation UpdateUser($firstname: String, $lastname: String, $password: String) {
  updateUser(firstname: $firstname, lastname: $lastname, password: $password) {` + userFields + `
  }
}`,
		Mutation:    true,
		Invalidates: []string{"getMe", "getLeagueUsers", "classementLigue"},
	}

	opDeleteUser = Operation{
		Name:  "DeleteUser",
		Field: "deleteUser",
		Document: `mutation DeleteUser {
  deleteUser
}`,
		Mutation:   true,
		FlushCache: true,
	}

	opGetAllGPs = Operation{
		Name:  "GetAllGPs",
		Field: "getAllGPs",
		Document: `query GetAllGPs {
  getAllGPs {` + gpFields + `
  }
}`,
		Cached: true,
	}

	opGetGPs = Operation{
		Name:  "GetGPs",
		Field: "gps",
		Document: `query GetGPs($season: String) {
  gps(season: $season) {` + gpFields + `
  }
}`,
		Cached: true,
	}

	opGetPastGPs = Operation{
		Name:  "GetPastGPs",
		Field: "getPastGPs",
		Document: `query GetPastGPs {
  getPastGPs {` + gpFields + `
  }
}`,
		Cached: true,
	}

	opGetNextGP = Operation{
		Name:  "GetNextGP",
		Field: "getNextGP",
		Document: `query GetNextGP {
  getNextGP {` + gpFields + `
  }
}`,
		Cached: true,
	}

	opGetGP = Operation{
		Name:  "GetGP",
		Field: "gp",
		Document: `query GetGP($id: String!) {
  gp(id: $id) {` + gpFields + `
  }
}`,
		Cached: true,
	}

	opGetPilotes = Operation{
		Name:  "GetPilotes",
		Field: "pilotes",
		Document: `query GetPilotes {
  pilotes {` + piloteFields + `
  }
}`,
		Cached: true,
	}

	opGetMyLeagues = Operation{
		Name:  "GetMyLeagues",
		Field: "getMyLeagues",
		Document: `query GetMyLeagues {
  getMyLeagues {` + leagueFields + `
  }
}`,
		Cached: true,
	}

	opGetPublicLeagues = Operation{
		Name:  "GetPublicLeagues",
		Field: "getPublicLeagues",
		Document: `query GetPublicLeagues {
  getPublicLeagues {` + leagueFields + `
  }
}`,
		Cached: true,
	}

	opJoinLeague = Operation{
		Name:  "JoinLeague",
		Field: "joinLeague",
		Document: `mutation JoinLeague($leagueId: Int, $shared_link: String) {
  joinLeague(leagueId: $leagueId, shared_link: $shared_link) {` + leagueFields + `
  }
}`,
		Mutation:    true,
		Invalidates: []string{"getMyLeagues", "getPublicLeagues", "getLeagueUsers", "classementLigue"},
	}

	opCreateLeague = Operation{
		Name:  "CreateLeague",
		Field: "createLeague",
		Document: `mutation CreateLeague($name: String!, $private: Boolean!) {
  createLeague(name: $name, private: $private) {` + leagueFields + `
  }
}`,
		Mutation:    true,
		Invalidates: []string{"getMyLeagues", "getPublicLeagues"},
	}

	opGetLeagueUsers = Operation{
		Name:  "GetLeagueUsers",
		Field: "getLeagueUsers",
		Document: `query GetLeagueUsers($leagueId: Int!) {
  getLeagueUsers(leagueId: $leagueId) {
    id
    firstname
    lastname
    role
  }
}`,
		Cached: true,
	}

	opGetMyBets = Operation{
		Name:  "GetMyBets",
		Field: "getMyBets",
		Document: `query GetMyBets {
  getMyBets {` + betFields + `
  }
}`,
		Cached: true,
	}

	opCreateBetSelection = Operation{
		Name:  "CreateBetSelection",
		Field: "createBetSelection",
		Document: `mutation CreateBetSelection($gpId: String!, $piloteP10Id: Int!, $piloteDNFId: Int!) {
  createBetSelection(gpId: $gpId, piloteP10Id: $piloteP10Id, piloteDNFId: $piloteDNFId) {` + betFields + `
  }
}`,
		Mutation:    true,
		Invalidates: []string{"getMyBets"},
	}

	opUpdateBetSelection = Operation{
		Name:  "UpdateBetSelection",
		Field: "updateBetSelection",
		Document: `mutation UpdateBetSelection($betId: Int!, $piloteP10Id: Int, $piloteDNFId: Int) {
  updateBetSelection(betId: $betId, piloteP10Id: $piloteP10Id, piloteDNFId: $piloteDNFId) {` + betFields + `
  }
}`,
		Mutation:    true,
		Invalidates: []string{"getMyBets"},
	}

	opDeleteBetSelection = Operation{
		Name:  "DeleteBetSelection",
		Field: "deleteBetSelection",
		Document: `mutation DeleteBetSelection($betId: Int!) {
  deleteBetSelection(betId: $betId)
}`,
		Mutation:    true,
		Invalidates: []string{"getMyBets"},
	}

	opGetClassementByGP = Operation{
		Name:  "GetClassementByGP",
		Field: "getClassementByGP",
		Document: `query GetClassementByGP($gpId: String!) {
  getClassementByGP(gpId: $gpId) {
    position
    isDNF
    pilote {` + piloteFields + `
    }
    ecurie {
      id_api_ecuries
      name
      logo
      color
    }
  }
}`,
		Cached: true,
	}

	opClassementLigue = Operation{
		Name:  "ClassementLigue",
		Field: "classementLigue",
		Document: `query ClassementLigue($leagueId: Int!) {
  classementLigue(leagueId: $leagueId) {
    totalPoints
    user {` + userFields + `
    }
  }
}`,
		Cached: true,
	}
)
